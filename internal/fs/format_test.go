package fs

import "testing"

func TestFormatV1RejectsBadSize(t *testing.T) {
	if _, err := Format(make([]byte, 100), 1); err != CORRUPT {
		t.Errorf("Format with non-multiple-of-256 size = %v, want CORRUPT", err)
	}
	if _, err := Format(make([]byte, 65536+256), 1); err != CORRUPT {
		t.Errorf("Format with size > 64K = %v, want CORRUPT", err)
	}
}

func TestFormatV1Basics(t *testing.T) {
	img := make([]byte, 8192) // 32 pages
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if fsys.Version() != 1 {
		t.Errorf("Version = %d, want 1", fsys.Version())
	}
	if fsys.PageSize() != 256 {
		t.Errorf("PageSize = %d, want 256", fsys.PageSize())
	}
	if fsys.FreePages() != 31 {
		t.Errorf("FreePages = %d, want 31", fsys.FreePages())
	}
}

func TestFormatV2PageSizeSteps(t *testing.T) {
	cases := []struct {
		size int
		page int
	}{
		{64 * 1024, 256},
		{256 * 1024, 512},
		{1024 * 1024, 1024},
		{4 * 1024 * 1024, 2048},
	}
	for _, c := range cases {
		img := make([]byte, c.size)
		fsys, err := Format(img, 2)
		if err != nil {
			t.Fatalf("Format(%d): %v", c.size, err)
		}
		if fsys.PageSize() != c.page {
			t.Errorf("Format(%d).PageSize() = %d, want %d", c.size, fsys.PageSize(), c.page)
		}
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	img := make([]byte, 8192)
	if _, err := Load(img); err != CORRUPT {
		t.Errorf("Load(zeroed image) = %v, want CORRUPT", err)
	}
}

func TestFormatLoadRoundTrip(t *testing.T) {
	img := make([]byte, 8192)
	if _, err := Format(img, 1); err != nil {
		t.Fatalf("Format: %v", err)
	}
	fsys, err := Load(img)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fsys.Version() != 1 {
		t.Errorf("Version after Load = %d, want 1", fsys.Version())
	}
}
