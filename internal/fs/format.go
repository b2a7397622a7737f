package fs

// format abstracts everything that differs between the V1 and V2
// on-disk layouts: header geometry, page size, directory-entry field
// widths, and the page-chaining representation. The rest of the
// package (allocator, path resolver, file operations) is written
// once against this interface (SPEC §9, "polymorphism over format").
type format interface {
	// Version returns 1 or 2.
	Version() int

	// PageSize is the size, in bytes, of one page.
	PageSize() int

	// Payload is the number of content bytes stored per page (255 for
	// V1, PageSize() for V2).
	Payload() int

	// MaxPages is the total number of pages in the image (S / P).
	MaxPages() uint32

	// BitmapSize is the number of bytes in the allocation bitmap.
	BitmapSize() int

	// Bitmap returns the live bitmap bytes (a window into the image).
	Bitmap() []byte

	FreePages() int
	SetFreePages(n int)

	// OverheadPages lists pages that are permanently reserved (the
	// header page, and any FAT pages for V2) and must never be freed.
	OverheadPages() []uint32

	// RootEntriesOffset is the byte offset, within page 0, where the
	// root directory's entries begin.
	RootEntriesOffset() int
	RootMaxEntries() int
	DirMaxEntries() int

	// TimestampOffset is the byte offset, within a 32-byte entry,
	// where the BCD timestamp fields begin.
	TimestampOffset() int

	StartPage(entry []byte) uint32
	SetStartPage(entry []byte, page uint32)
	EntrySize(entry []byte) uint32
	SetEntrySize(entry []byte, size uint32)

	// PageOffset is the byte offset, within the image, of the start
	// of the given page (its link byte for V1; its data for V2).
	PageOffset(page uint32) int

	// DataOffset is the byte offset, within the image, where page's
	// Payload() content bytes begin (PageOffset()+1 for V1, to skip
	// the link byte; PageOffset() for V2).
	DataOffset(page uint32) int

	// NextPage/SetNextPage implement the chain layer (SPEC §4.3): the
	// successor of `page`, or noPage (0) at the end of a chain.
	NextPage(page uint32) uint32
	SetNextPage(page uint32, next uint32)
}
