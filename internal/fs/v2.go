package fs

// V2 header layout (page 0, variable geometry):
//
//	0: magic            u8
//	1: version          u8
//	2: bitmap_size      u16 LE
//	4: free_pages       u16 LE
//	6: page_size_code   u8
//	7: pages_bitmap     [bitmap_size]u8
//
// Root entries begin at align_up(7+bitmap_size, 32).
const (
	v2FixedHeaderSize     = 7
	v2BitmapSizeOffset    = 2
	v2FreePagesOffset     = 4
	v2PageSizeCodeOffset  = 6
	v2BitmapOffset        = v2FixedHeaderSize
	v2EntryStartPageOff   = 17
	v2EntrySizeOff        = 19
	v2EntryTimestampOff   = 23
)

type v2Format struct {
	img      []byte
	pageSize int
	fatPages int
}

func newV2Format(img []byte) *v2Format {
	code := img[v2PageSizeCodeOffset]
	pageSize := 256 << code
	return &v2Format{img: img, pageSize: pageSize, fatPages: fatPageCount(pageSize)}
}

// fatPageCount returns how many pages the FAT occupies: one page when
// P = 256, two for every larger page size (SPEC §4.2, §9). A single
// 256-byte FAT page holds 128 u16 slots, for pages 0-127.
func fatPageCount(pageSize int) int {
	if pageSize == 256 {
		return 1
	}
	return 2
}

// formatV2 initializes a freshly allocated image (or partition slice)
// in place and returns the format view over it.
func formatV2(img []byte) *v2Format {
	pageSize := pageSizeForDisk(int64(len(img)))
	totalPages := uint32(len(img) / pageSize)
	fatPages := fatPageCount(pageSize)
	bitmapSize := int(totalPages) / 8
	if bitmapSize == 0 {
		bitmapSize = 1
	}

	img[0] = magicByte
	img[1] = 2
	putLE16(img[v2BitmapSizeOffset:v2BitmapSizeOffset+2], uint16(bitmapSize))
	img[v2PageSizeCodeOffset] = pageSizeCode(pageSize)

	f := &v2Format{img: img, pageSize: pageSize, fatPages: fatPages}

	bitmap := f.Bitmap()
	for i := range bitmap {
		bitmap[i] = 0
	}
	overhead := f.OverheadPages()
	for _, p := range overhead {
		bitmap[p/8] |= 1 << (p % 8)
	}
	f.SetFreePages(int(totalPages) - len(overhead))

	return f
}

func (f *v2Format) Version() int  { return 2 }
func (f *v2Format) PageSize() int { return f.pageSize }
func (f *v2Format) Payload() int  { return f.pageSize }

func (f *v2Format) MaxPages() uint32 { return uint32(len(f.img) / f.pageSize) }

func (f *v2Format) BitmapSize() int {
	return int(le16(f.img[v2BitmapSizeOffset : v2BitmapSizeOffset+2]))
}

func (f *v2Format) Bitmap() []byte {
	n := f.BitmapSize()
	return f.img[v2BitmapOffset : v2BitmapOffset+n]
}

func (f *v2Format) FreePages() int {
	return int(le16(f.img[v2FreePagesOffset : v2FreePagesOffset+2]))
}
func (f *v2Format) SetFreePages(n int) {
	putLE16(f.img[v2FreePagesOffset:v2FreePagesOffset+2], uint16(n))
}

func (f *v2Format) OverheadPages() []uint32 {
	pages := make([]uint32, 0, 1+f.fatPages)
	for p := uint32(0); p <= uint32(f.fatPages); p++ {
		pages = append(pages, p)
	}
	return pages
}

func (f *v2Format) RootEntriesOffset() int {
	return alignUp(v2FixedHeaderSize+f.BitmapSize(), entrySize)
}
func (f *v2Format) RootMaxEntries() int {
	return (f.pageSize - f.RootEntriesOffset()) / entrySize
}
func (f *v2Format) DirMaxEntries() int   { return f.pageSize / entrySize }
func (f *v2Format) TimestampOffset() int { return v2EntryTimestampOff }

func (f *v2Format) StartPage(entry []byte) uint32 {
	return uint32(le16(entry[v2EntryStartPageOff : v2EntryStartPageOff+2]))
}
func (f *v2Format) SetStartPage(entry []byte, page uint32) {
	putLE16(entry[v2EntryStartPageOff:v2EntryStartPageOff+2], uint16(page))
}

func (f *v2Format) EntrySize(entry []byte) uint32 {
	return le32(entry[v2EntrySizeOff : v2EntrySizeOff+4])
}
func (f *v2Format) SetEntrySize(entry []byte, size uint32) {
	putLE32(entry[v2EntrySizeOff:v2EntrySizeOff+4], size)
}

func (f *v2Format) PageOffset(page uint32) int { return int(page) * f.pageSize }
func (f *v2Format) DataOffset(page uint32) int { return f.PageOffset(page) }

// fatEntryOffset returns the byte offset of page `page`'s u16 slot in
// the FAT, which begins at page 1.
func (f *v2Format) fatEntryOffset(page uint32) int {
	return f.pageSize + int(page)*2
}

func (f *v2Format) NextPage(page uint32) uint32 {
	off := f.fatEntryOffset(page)
	return uint32(le16(f.img[off : off+2]))
}
func (f *v2Format) SetNextPage(page uint32, next uint32) {
	off := f.fatEntryOffset(page)
	putLE16(f.img[off:off+2], uint16(next))
}
