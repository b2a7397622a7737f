package fs

// This file implements the chain layer (SPEC §4.3): the ordered
// sequence of pages making up a file's content, uniform across V1's
// in-page link byte and V2's external FAT.

// zeroPage clears a page's full PageSize() bytes (used when a page is
// newly allocated for a file/directory's content).
func (fsys *FS) zeroPage(page uint32) {
	off := fsys.f.PageOffset(page)
	size := fsys.f.PageSize()
	region := fsys.img[off : off+size]
	for i := range region {
		region[i] = 0
	}
}

// walkChain advances `jump` links from start and returns the
// resulting page. jump must not exceed the chain's length.
func (fsys *FS) walkChain(start uint32, jump int) uint32 {
	page := start
	for i := 0; i < jump; i++ {
		page = fsys.f.NextPage(page)
	}
	return page
}

// unlinkChain walks the chain starting at start, freeing every page
// and clearing its link, per SPEC §4.5 unlink/rmdir-adjacent cleanup.
func (fsys *FS) unlinkChain(start uint32) {
	a := allocator{fsys.f}
	page := start
	for page != noPage {
		next := fsys.f.NextPage(page)
		fsys.f.SetNextPage(page, noPage)
		a.free(page)
		page = next
	}
}

// growChain allocates a new page, links it after `tail`, zeroes its
// link field (V1) or FAT slot (V2), and returns it. It returns
// (0, false) if the allocator is exhausted.
func (fsys *FS) growChain(tail uint32) (uint32, bool) {
	a := allocator{fsys.f}
	next := a.allocate()
	if next == noPage {
		return 0, false
	}
	fsys.f.SetNextPage(tail, next)
	fsys.f.SetNextPage(next, noPage)
	return next, true
}
