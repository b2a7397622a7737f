package fs

// V1 header layout (fixed 64 bytes, page 0):
//
//	0:  magic            u8
//	1:  version          u8
//	2:  bitmap_size      u8
//	3:  free_pages       u8
//	4:  pages_bitmap     [32]u8  (only the first bitmap_size bytes are live)
//	36: reserved         [28]u8
//	64: root entries begin
const (
	v1PageSize          = 256
	v1Payload           = 255 // P - 1; byte 0 of each page is the chain link
	v1BitmapCap         = 32
	v1ReservedSize      = 28
	v1HeaderSize        = 4 + v1BitmapCap + v1ReservedSize // 64
	v1BitmapOffset      = 4
	v1FreePagesOffset   = 3
	v1BitmapSizeOffset  = 2
	v1EntryStartPage    = 17
	v1EntrySizeOff      = 18
	v1EntryTimestampOff = 20
)

type v1Format struct {
	img []byte
}

func newV1Format(img []byte) *v1Format { return &v1Format{img: img} }

// formatV1 initializes a freshly allocated image in place and returns
// the format view over it. totalSize must be a multiple of 256 and at
// most 65536 (spec §3).
func formatV1(img []byte) *v1Format {
	totalPages := uint32(len(img) / v1PageSize)
	bitmapSize := len(img) / v1PageSize / 8
	if bitmapSize == 0 {
		bitmapSize = 1
	}

	img[0] = magicByte
	img[1] = 1
	img[v1BitmapSizeOffset] = byte(bitmapSize)
	// Page 0 (the header) is reserved; every other page starts free.
	img[v1FreePagesOffset] = byte(int(totalPages) - 1)
	bitmap := img[v1BitmapOffset : v1BitmapOffset+v1BitmapCap]
	for i := range bitmap {
		bitmap[i] = 0
	}
	bitmap[0] = 1 // page 0 occupied
	for i := range img[v1BitmapOffset+v1BitmapCap : v1HeaderSize] {
		img[v1BitmapOffset+v1BitmapCap+i] = 0
	}

	return newV1Format(img)
}

func (f *v1Format) Version() int  { return 1 }
func (f *v1Format) PageSize() int { return v1PageSize }
func (f *v1Format) Payload() int  { return v1Payload }

func (f *v1Format) MaxPages() uint32 { return uint32(len(f.img) / v1PageSize) }

func (f *v1Format) BitmapSize() int { return int(f.img[v1BitmapSizeOffset]) }

// Bitmap returns only the live bitmap_size bytes, not the full
// v1BitmapCap-sized reserved region — a disk smaller than 64 KB has
// trailing bitmap bytes that address no real page, and the allocator
// and integrity checker must never treat them as free pages.
func (f *v1Format) Bitmap() []byte {
	n := f.BitmapSize()
	return f.img[v1BitmapOffset : v1BitmapOffset+n]
}

func (f *v1Format) FreePages() int { return int(f.img[v1FreePagesOffset]) }
func (f *v1Format) SetFreePages(n int) {
	f.img[v1FreePagesOffset] = byte(n)
}

func (f *v1Format) OverheadPages() []uint32 { return []uint32{0} }

func (f *v1Format) RootEntriesOffset() int { return v1HeaderSize }
func (f *v1Format) RootMaxEntries() int    { return (v1PageSize - v1HeaderSize) / entrySize }
func (f *v1Format) DirMaxEntries() int     { return v1PageSize / entrySize }
func (f *v1Format) TimestampOffset() int   { return v1EntryTimestampOff }

func (f *v1Format) StartPage(entry []byte) uint32 { return uint32(entry[v1EntryStartPage]) }
func (f *v1Format) SetStartPage(entry []byte, page uint32) {
	entry[v1EntryStartPage] = byte(page)
}

func (f *v1Format) EntrySize(entry []byte) uint32 {
	return uint32(le16(entry[v1EntrySizeOff : v1EntrySizeOff+2]))
}
func (f *v1Format) SetEntrySize(entry []byte, size uint32) {
	putLE16(entry[v1EntrySizeOff:v1EntrySizeOff+2], uint16(size))
}

func (f *v1Format) PageOffset(page uint32) int { return int(page) * v1PageSize }
func (f *v1Format) DataOffset(page uint32) int { return f.PageOffset(page) + 1 }

func (f *v1Format) NextPage(page uint32) uint32 {
	return uint32(f.img[f.PageOffset(page)])
}
func (f *v1Format) SetNextPage(page uint32, next uint32) {
	f.img[f.PageOffset(page)] = byte(next)
}
