package fs

import "testing"

func TestCheckIntegrityDetectsCorruptedFreeCount(t *testing.T) {
	img := make([]byte, 8192)
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	fsys.f.SetFreePages(fsys.f.FreePages() + 1)

	if err := fsys.checkIntegrity(); err != CORRUPT {
		t.Fatalf("checkIntegrity with mismatched free count = %v, want CORRUPT", err)
	}
}

func TestCheckIntegrityPassesFreshFormat(t *testing.T) {
	img := make([]byte, 8192)
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if err := fsys.checkIntegrity(); err != nil {
		t.Fatalf("checkIntegrity on fresh image: %v", err)
	}
}

// TestCheckIntegrityWarnsOnOverCountedFreePages covers SPEC §4.7 item 5
// and the S4 scenario: zeroing a bit that was 1 makes the bitmap's own
// tally of free pages exceed the header's free_pages, which is an
// over-reporting condition the checker only warns about, never fails.
func TestCheckIntegrityWarnsOnOverCountedFreePages(t *testing.T) {
	img := make([]byte, 8192)
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if _, err := fsys.Create("/f"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	bitmap := fsys.f.Bitmap()
	bitmap[0] &^= 1 << 1 // clear the bit for the page Create just allocated
	if err := fsys.checkIntegrity(); err != nil {
		t.Fatalf("checkIntegrity with over-counted free pages = %v, want nil (warn only)", err)
	}
}
