package fs

import "testing"

func TestAllocatorLowestFirst(t *testing.T) {
	img := make([]byte, 8192) // V1, 32 pages
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	a := allocator{fsys.f}

	p1 := a.allocate()
	if p1 != 1 {
		t.Fatalf("first allocate = %d, want 1 (page 0 is the header)", p1)
	}
	p2 := a.allocate()
	if p2 != 2 {
		t.Fatalf("second allocate = %d, want 2", p2)
	}

	a.free(p1)
	p3 := a.allocate()
	if p3 != p1 {
		t.Fatalf("allocate after free = %d, want reused page %d", p3, p1)
	}
}

func TestAllocatorExhaustion(t *testing.T) {
	img := make([]byte, 2048) // V1, 8 pages
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	a := allocator{fsys.f}

	for i := 0; i < 7; i++ {
		if p := a.allocate(); p == noPage {
			t.Fatalf("allocate %d unexpectedly exhausted", i)
		}
	}
	if p := a.allocate(); p != noPage {
		t.Fatalf("allocate on exhausted bitmap = %d, want noPage", p)
	}
}

func TestCountFreeBitsMatchesFreePages(t *testing.T) {
	img := make([]byte, 4096) // V1, 16 pages
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	a := allocator{fsys.f}
	if got, want := a.countFreeBits(), fsys.f.FreePages(); got != want {
		t.Fatalf("countFreeBits = %d, FreePages = %d", got, want)
	}

	a.allocate()
	a.allocate()
	if got, want := a.countFreeBits(), fsys.f.FreePages(); got != want {
		t.Fatalf("after allocate: countFreeBits = %d, FreePages = %d", got, want)
	}
}
