package fs

import "sync"

// FS is one mounted ZealFS image: an explicit, non-global instance
// wrapping a format-specific view over an in-memory byte buffer
// (SPEC §9, "no global image buffer"). The zero value is not usable;
// construct one with Format or Load.
//
// FS is safe for concurrent use: all operations serialize through an
// internal mutex, matching the single-writer model of SPEC §5 even
// though the core itself assumes a single caller.
type FS struct {
	mu  sync.Mutex
	img []byte
	f   format
}

// Version returns 1 or 2.
func (fsys *FS) Version() int { return fsys.f.Version() }

// PageSize returns the page size in bytes.
func (fsys *FS) PageSize() int { return fsys.f.PageSize() }

// FreePages returns the current free-page count.
func (fsys *FS) FreePages() int {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.f.FreePages()
}

// MaxPages returns the total number of pages in the image.
func (fsys *FS) MaxPages() uint32 { return fsys.f.MaxPages() }

// Image returns the raw backing buffer, for flushing to a host file
// or for computing integrity/backup checksums. Callers must not
// retain it across concurrent mutating calls.
func (fsys *FS) Image() []byte { return fsys.img }

// Format initializes a fresh image of the given size (bytes) and
// version in place and returns the filesystem wrapping it. version
// must be 1 or 2. For V1, size must be <= 65536 and a multiple of
// 256; for V2, size must be a multiple of the page size the step
// function in SPEC §4.2 picks for it.
func Format(img []byte, version int) (*FS, error) {
	switch version {
	case 1:
		if len(img) > 65536 {
			return nil, CORRUPT
		}
		if len(img)%v1PageSize != 0 {
			return nil, CORRUPT
		}
		return &FS{img: img, f: formatV1(img)}, nil
	case 2:
		f := formatV2(img)
		if len(img)%f.PageSize() != 0 {
			return nil, CORRUPT
		}
		return &FS{img: img, f: f}, nil
	default:
		return nil, CORRUPT
	}
}

// Load parses an existing image buffer (already sliced to the
// partition region, if any — see internal/fs/mbr.go) and runs the
// integrity check (SPEC §4.7) before returning.
func Load(img []byte) (*FS, error) {
	if len(img) < 2 {
		return nil, CORRUPT
	}
	if img[0] != magicByte {
		return nil, CORRUPT
	}
	version := img[1]

	var f format
	switch version {
	case 1:
		f = newV1Format(img)
	case 2:
		f = newV2Format(img)
	default:
		return nil, CORRUPT
	}

	fsys := &FS{img: img, f: f}
	if err := fsys.checkIntegrity(); err != nil {
		return nil, err
	}
	return fsys, nil
}

// entriesWindow returns the byte range holding the entries array for
// either the root directory (root == true; page is ignored) or a
// non-root directory's content page.
func (fsys *FS) entriesWindow(page uint32, root bool) []byte {
	if root {
		off := fsys.f.RootEntriesOffset()
		n := fsys.f.RootMaxEntries() * entrySize
		return fsys.img[off : off+n]
	}
	off := fsys.f.PageOffset(page)
	n := fsys.f.DirMaxEntries() * entrySize
	return fsys.img[off : off+n]
}

func (fsys *FS) maxEntries(root bool) int {
	if root {
		return fsys.f.RootMaxEntries()
	}
	return fsys.f.DirMaxEntries()
}

func (fsys *FS) entryAt(page uint32, root bool, slot int) []byte {
	w := fsys.entriesWindow(page, root)
	return w[slot*entrySize : (slot+1)*entrySize]
}
