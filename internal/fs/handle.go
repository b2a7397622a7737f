package fs

// Handle is a stable, relocation-proof identifier for either a single
// directory entry (file or subdirectory) or an open directory's
// content. The original C implementation stashes a raw pointer into
// the image cache for this purpose; that is not portable once the
// backing buffer can move (e.g. on reload), so a Handle instead
// carries the (page, slot) coordinates spec.md §9 recommends.
type Handle struct {
	root bool
	page uint32 // parent page (entry handle) or content page (dir handle)
	slot int     // entry index within its directory, or -1 for a dir-content handle
}

// IsDir reports whether this handle addresses a directory's open
// content (as returned by OpenDir) rather than a single entry.
func (h Handle) IsDir() bool { return h.slot < 0 }

func entryHandle(page uint32, root bool, slot int) Handle {
	return Handle{root: root, page: page, slot: slot}
}

func dirContentHandle(page uint32, root bool) Handle {
	return Handle{root: root, page: page, slot: -1}
}

// rootDirHandle is the handle opendir("/") returns.
func rootDirHandle() Handle { return dirContentHandle(0, true) }
