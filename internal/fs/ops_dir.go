package fs

import "time"

// DirEntry is one entry emitted by ReadDir.
type DirEntry struct {
	Name string
	Stat Stat
}

// Open resolves path to a file handle (SPEC §4.5 open).
func (fsys *FS) Open(path string) (Handle, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	if path == "/" {
		return Handle{}, ISDIR
	}
	res, err := fsys.lookup(path)
	if err != nil {
		return Handle{}, err
	}
	if !res.found {
		return Handle{}, NOENT
	}
	e := res.entry(fsys)
	if entryIsDir(e) {
		return Handle{}, NOTDIR
	}
	return entryHandle(res.page, res.root, res.slot), nil
}

// OpenDir resolves path to a directory-content handle (SPEC §4.5 opendir).
func (fsys *FS) OpenDir(path string) (Handle, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	if path == "/" {
		return rootDirHandle(), nil
	}
	res, err := fsys.lookup(path)
	if err != nil {
		return Handle{}, err
	}
	if !res.found {
		return Handle{}, NOENT
	}
	e := res.entry(fsys)
	if !entryIsDir(e) {
		return Handle{}, NOTDIR
	}
	return dirContentHandle(fsys.f.StartPage(e), false), nil
}

// ReadDir emits "." and ".." followed by every occupied entry in the
// directory h addresses, unsorted (SPEC §4.5 readdir).
func (fsys *FS) ReadDir(h Handle) ([]DirEntry, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	if !h.IsDir() {
		return nil, NOTDIR
	}

	out := []DirEntry{
		{Name: ".", Stat: Stat{Name: ".", IsDir: true}},
		{Name: "..", Stat: Stat{Name: "..", IsDir: true}},
	}

	window := fsys.entriesWindow(h.page, h.root)
	max := fsys.maxEntries(h.root)
	for s := 0; s < max; s++ {
		e := window[s*entrySize : (s+1)*entrySize]
		if !entryOccupied(e) {
			continue
		}
		out = append(out, DirEntry{Name: string(entryName(e)), Stat: fsys.statFromEntry(e)})
	}
	return out, nil
}

// createBoth implements the shared body of create and mkdir (SPEC §4.5).
func (fsys *FS) createBoth(path string, isDir bool) (Handle, error) {
	name := basename(path)
	if len(name) > nameMaxLen {
		return Handle{}, NAMETOOLONG
	}

	res, err := fsys.lookup(path)
	if err != nil {
		return Handle{}, err
	}
	if res.found {
		return Handle{}, EXIST
	}
	if res.freeSlot == -1 {
		return Handle{}, NFILE
	}

	a := allocator{fsys.f}
	newPage := a.allocate()
	if newPage == noPage {
		return Handle{}, fsys.spaceError()
	}

	e := fsys.entryAt(res.freePage, res.freeRoot, res.freeSlot)
	flags := byte(flagOccupied)
	if isDir {
		flags |= flagIsDir
	}
	setEntryFlags(e, flags)
	fsys.f.SetStartPage(e, newPage)
	setEntryName(e, name)
	var size uint32
	if isDir {
		size = uint32(fsys.f.PageSize())
	}
	fsys.f.SetEntrySize(e, size)
	setEntryTime(e, fsys.f.TimestampOffset(), time.Now())
	fsys.zeroPage(newPage)

	return entryHandle(res.freePage, res.freeRoot, res.freeSlot), nil
}

// Create makes an empty file at path and returns its handle (SPEC §4.5 create).
func (fsys *FS) Create(path string) (Handle, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.createBoth(path, false)
}

// Mkdir makes an empty directory at path (SPEC §4.5 mkdir).
func (fsys *FS) Mkdir(path string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	_, err := fsys.createBoth(path, true)
	return err
}

// Rmdir removes an empty directory (SPEC §4.5 rmdir). The directory's
// own content page remains allocated, matching the source's observed
// behavior (SPEC §9); only the caller's directory-entry slot is freed.
func (fsys *FS) Rmdir(path string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	if path == "/" {
		return ACCES
	}
	res, err := fsys.lookup(path)
	if err != nil {
		return err
	}
	if !res.found {
		return NOENT
	}
	e := res.entry(fsys)
	if !entryIsDir(e) {
		return NOTDIR
	}

	window := fsys.entriesWindow(fsys.f.StartPage(e), false)
	max := fsys.f.DirMaxEntries()
	for s := 0; s < max; s++ {
		se := window[s*entrySize : (s+1)*entrySize]
		if entryOccupied(se) {
			return NOTEMPTY
		}
	}

	clearEntry(e)
	return nil
}
