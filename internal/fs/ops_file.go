package fs

import "time"

// Read fills buf starting at offset off in the file addressed by h,
// returning the number of bytes copied. Reading past EOF truncates
// the result; reading at or past EOF returns 0 (SPEC §4.5 read).
func (fsys *FS) Read(h Handle, off int64, buf []byte) (int, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	if h.IsDir() {
		return 0, ISDIR
	}
	e := fsys.entryAt(h.page, h.root, h.slot)
	size := int64(fsys.f.EntrySize(e))
	if off >= size {
		return 0, nil
	}
	if want := size - off; int64(len(buf)) > want {
		buf = buf[:want]
	}

	payload := fsys.f.Payload()
	start := fsys.f.StartPage(e)
	page := fsys.walkChain(start, int(off/int64(payload)))
	posInPage := int(off % int64(payload))

	n := 0
	for n < len(buf) {
		data := fsys.img[fsys.f.DataOffset(page) : fsys.f.DataOffset(page)+payload]
		chunk := copy(buf[n:], data[posInPage:])
		n += chunk
		posInPage = 0
		if n < len(buf) {
			page = fsys.f.NextPage(page)
		}
	}
	return n, nil
}

// Write copies buf into the file addressed by h starting at offset
// off, growing the chain as needed, and returns the number of bytes
// written. size accumulates by len(buf) on every call, unconditionally,
// even when the write overwrites bytes already within the current size
// (SPEC §9) — an overwrite inflates size past the file's real extent.
func (fsys *FS) Write(h Handle, off int64, buf []byte) (int, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	if h.IsDir() {
		return 0, ISDIR
	}
	if len(buf) == 0 {
		return 0, nil
	}
	e := fsys.entryAt(h.page, h.root, h.slot)
	size := int64(fsys.f.EntrySize(e))
	payload := int64(fsys.f.Payload())

	end := off + int64(len(buf))
	if end > int64(fsys.f.MaxPages())*payload {
		return 0, fsys.spaceError()
	}

	start := fsys.f.StartPage(e)
	if start == noPage {
		a := allocator{fsys.f}
		p := a.allocate()
		if p == noPage {
			return 0, fsys.spaceError()
		}
		fsys.f.SetNextPage(p, noPage)
		fsys.zeroPage(p)
		fsys.f.SetStartPage(e, p)
		start = p
	}

	// Extend the chain, if needed, up to the last page the write touches.
	lastPageIdx := int((end - 1) / payload)
	page := start
	pageIdx := 0
	for pageIdx < lastPageIdx {
		next := fsys.f.NextPage(page)
		if next == noPage {
			grown, ok := fsys.growChain(page)
			if !ok {
				return 0, fsys.spaceError()
			}
			fsys.zeroPage(grown)
			next = grown
		}
		page = next
		pageIdx++
	}

	// Walk to the page holding off.
	page = start
	for i := 0; i < int(off/payload); i++ {
		page = fsys.f.NextPage(page)
	}
	posInPage := int(off % payload)

	n := 0
	for n < len(buf) {
		data := fsys.img[fsys.f.DataOffset(page) : fsys.f.DataOffset(page)+int(payload)]
		chunk := copy(data[posInPage:], buf[n:])
		n += chunk
		posInPage = 0
		if n < len(buf) {
			page = fsys.f.NextPage(page)
		}
	}

	fsys.f.SetEntrySize(e, uint32(size)+uint32(n))
	setEntryTime(e, fsys.f.TimestampOffset(), time.Now())
	return n, nil
}

// Unlink removes a file's directory entry and frees its whole page
// chain (SPEC §4.5 unlink).
func (fsys *FS) Unlink(path string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	res, err := fsys.lookup(path)
	if err != nil {
		return err
	}
	if !res.found {
		return NOENT
	}
	e := res.entry(fsys)
	if entryIsDir(e) {
		return ISDIR
	}
	start := fsys.f.StartPage(e)
	if start != noPage {
		fsys.unlinkChain(start)
	}
	clearEntry(e)
	return nil
}
