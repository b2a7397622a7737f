// Package fs implements the ZealFS on-disk format: the page allocator,
// the V1/V2 chaining strategies, the directory-entry model, path
// resolution, and the filesystem operations built on top of them. It
// operates entirely on an in-memory byte buffer; loading that buffer
// from, and flushing it back to, a host file is the caller's job (see
// internal/hostimage).
package fs

import "encoding/binary"

// Every on-disk structure is byte-exact and little-endian. Fields are
// read and written through explicit offset math rather than native Go
// structs decoded with encoding/binary, because the V2 directory
// entry's start_page field begins at an odd byte offset: a Go struct
// with a uint16 there would get a compiler-inserted padding byte,
// silently shifting every field after it out of position.

const (
	magicByte = 0x5A // 'Z'

	// entrySize is the fixed size of every directory entry, in both
	// format versions.
	entrySize = 32

	// nameMaxLen is the maximum length of a basename.
	nameMaxLen = 16

	flagOccupied = 1 << 7
	flagIsDir    = 1 << 0
	flagMask     = flagOccupied | flagIsDir

	noPage = 0 // sentinel: "no page" / chain terminator
)

// RenameFlags mirrors the renameat2(2) flags understood by rename.
type RenameFlags uint32

const (
	RenameDefault   RenameFlags = 0
	RenameNoReplace RenameFlags = 1 << 0
	RenameExchange  RenameFlags = 1 << 1
)

// entryFlags returns the flags byte of a 32-byte entry window.
func entryFlags(e []byte) byte { return e[0] }

func entryOccupied(e []byte) bool { return e[0]&flagOccupied != 0 }
func entryIsDir(e []byte) bool    { return e[0]&flagIsDir != 0 }

func entryName(e []byte) []byte {
	name := e[1 : 1+nameMaxLen]
	end := len(name)
	for end > 0 && name[end-1] == 0 {
		end--
	}
	return name[:end]
}

func setEntryName(e []byte, name string) {
	nb := e[1 : 1+nameMaxLen]
	for i := range nb {
		nb[i] = 0
	}
	copy(nb, name)
}

func nameEqual(e []byte, name string) bool {
	n := entryName(e)
	if len(n) != len(name) {
		return false
	}
	for i := range n {
		if n[i] != name[i] {
			return false
		}
	}
	return true
}

func setEntryFlags(e []byte, flags byte) { e[0] = flags }

// clearEntry zeros an entire directory entry slot (invariant 4:
// freed slots must be zeroed).
func clearEntry(e []byte) {
	for i := range e[:entrySize] {
		e[i] = 0
	}
}

func le16(b []byte) uint16       { return binary.LittleEndian.Uint16(b) }
func putLE16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func le32(b []byte) uint32       { return binary.LittleEndian.Uint32(b) }
func putLE32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// pageSizeForDisk implements the V2 step function of SPEC §4.2.
func pageSizeForDisk(size int64) int {
	const kb = 1024
	const mb = 1024 * kb
	const gb = 1024 * mb
	switch {
	case size <= 64*kb:
		return 256
	case size <= 256*kb:
		return 512
	case size <= 1*mb:
		return 1 * kb
	case size <= 4*mb:
		return 2 * kb
	case size <= 16*mb:
		return 4 * kb
	case size <= 64*mb:
		return 8 * kb
	case size <= 256*mb:
		return 16 * kb
	case size <= 1*gb:
		return 32 * kb
	default:
		return 64 * kb
	}
}

// pageSizeCode returns log2(pageSize/256).
func pageSizeCode(pageSize int) uint8 {
	code := uint8(0)
	for p := 256; p < pageSize; p *= 2 {
		code++
	}
	return code
}

func alignUp(v, bound int) int {
	return (v + bound - 1) &^ (bound - 1)
}
