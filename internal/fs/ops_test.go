package fs

import (
	"bytes"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	img := make([]byte, 16384) // V1, 64 pages
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	return fsys
}

func TestCreateWriteReadRoundTrip(t *testing.T) {
	fsys := newTestFS(t)

	h, err := fsys.Create("/hello.txt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	payload := bytes.Repeat([]byte("abcdefgh"), 100) // spans several 255-byte pages
	if n, err := fsys.Write(h, 0, payload); err != nil || n != len(payload) {
		t.Fatalf("Write = %d, %v", n, err)
	}

	buf := make([]byte, len(payload))
	n, err := fsys.Read(h, 0, buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(payload) || !bytes.Equal(buf, payload) {
		t.Fatalf("read back %d bytes, content mismatch", n)
	}

	st, err := fsys.Getattr("/hello.txt")
	if err != nil {
		t.Fatalf("Getattr: %v", err)
	}
	if st.Size != uint64(len(payload)) {
		t.Fatalf("Size = %d, want %d", st.Size, len(payload))
	}
}

func TestWriteSizeAccumulatesUnconditionally(t *testing.T) {
	fsys := newTestFS(t)
	h, err := fsys.Create("/f")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fsys.Write(h, 0, bytes.Repeat([]byte{1}, 500)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := fsys.Write(h, 0, []byte{2, 2}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	st, err := fsys.Getattr("/f")
	if err != nil {
		t.Fatalf("Getattr: %v", err)
	}
	// size accumulates by the written byte count on every write, even an
	// in-place overwrite that touches only already-allocated bytes.
	if st.Size != 502 {
		t.Fatalf("Size after short overwrite = %d, want 502 (size accumulates unconditionally)", st.Size)
	}
}

func TestMkdirReaddirRmdir(t *testing.T) {
	fsys := newTestFS(t)

	if err := fsys.Mkdir("/dir"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := fsys.Create("/dir/a"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	h, err := fsys.OpenDir("/dir")
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	entries, err := fsys.ReadDir(h)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	want := []string{"..", ".", "a"}
	sort.Strings(want)
	if diff := cmp.Diff(want, names, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ReadDir names mismatch (-want +got):\n%s", diff)
	}

	if err := fsys.Rmdir("/dir"); err != NOTEMPTY {
		t.Fatalf("Rmdir non-empty dir = %v, want NOTEMPTY", err)
	}
	if err := fsys.Unlink("/dir/a"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if err := fsys.Rmdir("/dir"); err != nil {
		t.Fatalf("Rmdir: %v", err)
	}
	if _, err := fsys.Getattr("/dir"); err != NOENT {
		t.Fatalf("Getattr after Rmdir = %v, want NOENT", err)
	}
}

func TestCreateExisting(t *testing.T) {
	fsys := newTestFS(t)
	if _, err := fsys.Create("/a"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fsys.Create("/a"); err != EXIST {
		t.Fatalf("Create existing = %v, want EXIST", err)
	}
}

func TestNameTooLong(t *testing.T) {
	fsys := newTestFS(t)
	longName := "/this-name-is-too-long-for-zealfs"
	if _, err := fsys.Create(longName); err != NAMETOOLONG {
		t.Fatalf("Create with long name = %v, want NAMETOOLONG", err)
	}
	if err := fsys.Mkdir(longName); err != NAMETOOLONG {
		t.Fatalf("Mkdir with long name = %v, want NAMETOOLONG", err)
	}
}

func TestUnlinkFreesPages(t *testing.T) {
	fsys := newTestFS(t)
	before := fsys.FreePages()

	h, err := fsys.Create("/f")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fsys.Write(h, 0, bytes.Repeat([]byte{1}, 1000)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	afterWrite := fsys.FreePages()
	if afterWrite >= before {
		t.Fatalf("FreePages did not drop after create+write: before=%d after=%d", before, afterWrite)
	}
	if err := fsys.Unlink("/f"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if got := fsys.FreePages(); got != before {
		t.Fatalf("FreePages after unlink = %d, want %d (all pages reclaimed)", got, before)
	}
}

func TestRmdirLeaksContentPage(t *testing.T) {
	fsys := newTestFS(t)
	before := fsys.FreePages()
	if err := fsys.Mkdir("/d"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	afterMkdir := fsys.FreePages()
	if afterMkdir != before-1 {
		t.Fatalf("FreePages after Mkdir = %d, want %d", afterMkdir, before-1)
	}
	if err := fsys.Rmdir("/d"); err != nil {
		t.Fatalf("Rmdir: %v", err)
	}
	if got := fsys.FreePages(); got != afterMkdir {
		t.Fatalf("FreePages after Rmdir = %d, want %d (content page must stay leaked)", got, afterMkdir)
	}
}

func TestRenameBasic(t *testing.T) {
	fsys := newTestFS(t)
	h, err := fsys.Create("/a")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fsys.Write(h, 0, []byte("hi")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fsys.Rename("/a", "/b", RenameDefault); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := fsys.Getattr("/a"); err != NOENT {
		t.Fatalf("Getattr(/a) after rename = %v, want NOENT", err)
	}
	st, err := fsys.Getattr("/b")
	if err != nil {
		t.Fatalf("Getattr(/b): %v", err)
	}
	if st.Size != 2 {
		t.Fatalf("Size after rename = %d, want 2", st.Size)
	}
}

func TestRenameNoReplaceRejectsExisting(t *testing.T) {
	fsys := newTestFS(t)
	if _, err := fsys.Create("/a"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fsys.Create("/b"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := fsys.Rename("/a", "/b", RenameNoReplace); err != EXIST {
		t.Fatalf("Rename with RenameNoReplace over existing = %v, want EXIST", err)
	}
}

func TestRenameExchangeUnsupported(t *testing.T) {
	fsys := newTestFS(t)
	if _, err := fsys.Create("/a"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fsys.Create("/b"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := fsys.Rename("/a", "/b", RenameExchange); err != FAULT {
		t.Fatalf("Rename with RenameExchange = %v, want FAULT", err)
	}
}

func TestRenameSameDirFullDirectorySucceeds(t *testing.T) {
	fsys := newTestFS(t)
	if err := fsys.Mkdir("/d"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	max := fsys.maxEntries(false)
	for i := 0; i < max; i++ {
		name := "/d/" + string(rune('a'+i))
		if _, err := fsys.Create(name); err != nil {
			t.Fatalf("Create(%s): %v", name, err)
		}
	}
	// The directory's slot table is now completely full: a same-directory
	// rename must not require a free slot, unlike a cross-directory one.
	if err := fsys.Rename("/d/a", "/d/z", RenameDefault); err != nil {
		t.Fatalf("same-directory rename in a full directory = %v, want success", err)
	}
	if _, err := fsys.Getattr("/d/a"); err != NOENT {
		t.Fatalf("Getattr(/d/a) after rename = %v, want NOENT", err)
	}
	if _, err := fsys.Getattr("/d/z"); err != nil {
		t.Fatalf("Getattr(/d/z): %v", err)
	}
}

func TestRenameAcrossDirectories(t *testing.T) {
	fsys := newTestFS(t)
	if err := fsys.Mkdir("/a"); err != nil {
		t.Fatalf("Mkdir(/a): %v", err)
	}
	if err := fsys.Mkdir("/b"); err != nil {
		t.Fatalf("Mkdir(/b): %v", err)
	}
	h, err := fsys.Create("/a/f")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	payload := []byte("cross-directory payload")
	if _, err := fsys.Write(h, 0, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	before := fsys.FreePages()

	if err := fsys.Rename("/a/f", "/b/g", RenameDefault); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, err := fsys.Getattr("/a/f"); err != NOENT {
		t.Fatalf("Getattr(/a/f) after rename = %v, want NOENT", err)
	}
	st, err := fsys.Getattr("/b/g")
	if err != nil {
		t.Fatalf("Getattr(/b/g): %v", err)
	}
	if st.Size != uint64(len(payload)) {
		t.Fatalf("Size(/b/g) = %d, want %d", st.Size, len(payload))
	}
	if got := fsys.FreePages(); got != before {
		t.Fatalf("FreePages after cross-directory rename = %d, want %d (unchanged)", got, before)
	}

	gh, err := fsys.Open("/b/g")
	if err != nil {
		t.Fatalf("Open(/b/g): %v", err)
	}
	buf := make([]byte, len(payload))
	if _, err := fsys.Read(gh, 0, buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(buf, payload) {
		t.Fatalf("data after cross-directory rename = %q, want %q", buf, payload)
	}
}

func TestRenameOverDirectoryIsNoopOnDestination(t *testing.T) {
	fsys := newTestFS(t)
	if _, err := fsys.Create("/a"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := fsys.Mkdir("/d"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	// Per the preserved source quirk, renaming a file over an existing
	// directory in the same parent is not rejected with EISDIR: the
	// directory's entry is left untouched and the renamed file, which
	// sits in the lower slot, is what a lookup of /d now finds.
	if err := fsys.Rename("/a", "/d", RenameDefault); err != nil {
		t.Fatalf("Rename onto directory: %v", err)
	}
	st, err := fsys.Getattr("/d")
	if err != nil {
		t.Fatalf("Getattr(/d): %v", err)
	}
	if st.IsDir {
		t.Fatalf("Getattr(/d) after rename-over = dir, want file (the renamed entry shadows the directory)")
	}
}
