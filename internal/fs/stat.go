package fs

import "time"

// Stat is the status record returned by Getattr and listed by
// ReadDir, mapping an on-disk entry to the fields the external FS
// adapters need (SPEC §4.5 getattr, §4.6 timestamp mapping).
type Stat struct {
	Name    string
	IsDir   bool
	Size    uint64
	ModTime time.Time
}

func (fsys *FS) statFromEntry(e []byte) Stat {
	return Stat{
		Name:    string(entryName(e)),
		IsDir:   entryIsDir(e),
		Size:    uint64(fsys.f.EntrySize(e)),
		ModTime: entryTime(e, fsys.f.TimestampOffset()),
	}
}

// Getattr returns the status record for path (SPEC §4.5).
func (fsys *FS) Getattr(path string) (Stat, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	if path == "/" {
		return Stat{Name: "/", IsDir: true, Size: uint64(fsys.f.PageSize())}, nil
	}
	res, err := fsys.lookup(path)
	if err != nil {
		return Stat{}, err
	}
	if !res.found {
		return Stat{}, NOENT
	}
	return fsys.statFromEntry(res.entry(fsys)), nil
}

func (fsys *FS) spaceError() Errno {
	if fsys.f.Version() == 1 {
		return FBIG
	}
	return NOSPC
}
