package fs

import "log"

// checkIntegrity runs the structural sanity checks described in
// SPEC §4.7: magic byte, a non-zero bitmap size that fits the image,
// and a free-page count consistent with the bitmap's own tally. It
// does not attempt to repair anything. Two of the five checks are
// warn-only and never fail the load: a bitmap smaller than the image
// (a trailing unreachable region) and a counted free-page total that
// over-reports allocation (counted > free_pages); only a bitmap that
// claims more pages than the image has, or a counted free-page total
// lower than free_pages, is reported as CORRUPT.
func (fsys *FS) checkIntegrity() error {
	if fsys.img[0] != magicByte {
		return CORRUPT
	}

	bitmapSize := fsys.f.BitmapSize()
	if bitmapSize <= 0 {
		return CORRUPT
	}
	bitmapPages := uint32(bitmapSize) * 8
	if bitmapPages > fsys.f.MaxPages() {
		return CORRUPT
	}
	if bitmapPages < fsys.f.MaxPages() {
		log.Printf("zealfs: bitmap covers %d pages, image holds %d; trailing region unreachable", bitmapPages, fsys.f.MaxPages())
	}

	a := allocator{fsys.f}
	counted := a.countFreeBits()
	free := fsys.f.FreePages()
	if counted < free {
		return CORRUPT
	}
	if counted > free {
		log.Printf("zealfs: bitmap reports %d free pages, header free_pages is %d; over-reporting allocation", counted, free)
	}

	return nil
}
