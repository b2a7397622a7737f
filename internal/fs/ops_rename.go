package fs

// Rename moves the entry at from to to, honoring RenameNoReplace and
// rejecting RenameExchange outright (SPEC §4.5 rename, §9).
//
// Destination-unlink is file-only: if to already names an existing
// directory, that directory's entry is left completely untouched
// (no free, no clear, no error). For a cross-directory move the
// directory's 32 entry bytes are then overwritten in place with
// from's; for a same-directory rename the source entry is only
// renamed, so the parent ends up holding two entries with the same
// name and lookups resolve to whichever sits in the lower slot. This
// is the behavior observed in the source, which this port preserves
// rather than fixes (SPEC §9).
//
// When from and to share the same parent directory, the source entry
// is renamed in place at its own slot and no free slot is required —
// only a cross-directory move needs a free slot in the destination
// parent, and only then can it fail with NOMEM (SPEC §4.5, confirmed
// by the source's same_dir branch, which skips the free-slot/memcpy
// path entirely for a same-directory rename).
func (fsys *FS) Rename(from, to string, flags RenameFlags) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	if flags&RenameExchange != 0 {
		return FAULT
	}

	toName := basename(to)
	if len(toName) > nameMaxLen {
		return NAMETOOLONG
	}

	srcRes, err := fsys.lookup(from)
	if err != nil {
		return err
	}
	if !srcRes.found {
		return NOENT
	}
	srcEntry := srcRes.entry(fsys)

	dstRes, err := fsys.lookup(to)
	if err != nil {
		return err
	}

	var toParentPage uint32
	var toParentRoot bool

	if dstRes.found {
		if flags&RenameNoReplace != 0 {
			return EXIST
		}
		toParentPage, toParentRoot = dstRes.page, dstRes.root
		dstEntry := fsys.entryAt(dstRes.page, dstRes.root, dstRes.slot)
		if !entryIsDir(dstEntry) {
			start := fsys.f.StartPage(dstEntry)
			if start != noPage {
				fsys.unlinkChain(start)
			}
			clearEntry(dstEntry)
		}
	} else {
		toParentPage, toParentRoot = dstRes.freePage, dstRes.freeRoot
	}

	// Rename the source entry in its own directory first; a same-directory
	// rename is already complete at this point.
	setEntryName(srcEntry, toName)

	sameDir := toParentPage == srcRes.page && toParentRoot == srcRes.root
	if sameDir {
		return nil
	}

	var dstEntry []byte
	if dstRes.found {
		// Reuse destination's own slot (freed above if it was a file;
		// if it was a directory, its bytes are overwritten in place,
		// matching the preserved destination-unlink-is-file-only quirk).
		dstEntry = fsys.entryAt(dstRes.page, dstRes.root, dstRes.slot)
	} else {
		if dstRes.freeSlot == -1 {
			return NOMEM
		}
		dstEntry = fsys.entryAt(dstRes.freePage, dstRes.freeRoot, dstRes.freeSlot)
	}
	copy(dstEntry, srcEntry)
	clearEntry(srcEntry)
	return nil
}
