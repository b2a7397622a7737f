package fs

import (
	"reflect"
	"testing"
)

func TestSplitPath(t *testing.T) {
	cases := []struct {
		path    string
		want    []string
		wantErr bool
	}{
		{"/", []string{}, false},
		{"/a", []string{"a"}, false},
		{"/a/b", []string{"a", "b"}, false},
		{"/a/b/", []string{"a", "b"}, false},
		{"a/b", nil, true},
		{"/a//b", nil, true},
		{"", nil, true},
	}
	for _, c := range cases {
		got, err := splitPath(c.path)
		if (err != nil) != c.wantErr {
			t.Errorf("splitPath(%q) error = %v, wantErr %v", c.path, err, c.wantErr)
			continue
		}
		if err == nil && !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitPath(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestBasenameDirname(t *testing.T) {
	if got := basename("/a/b/c"); got != "c" {
		t.Errorf("basename = %q", got)
	}
	if got := dirname("/a/b/c"); got != "/a/b" {
		t.Errorf("dirname = %q", got)
	}
	if got := dirname("/a"); got != "/" {
		t.Errorf("dirname(/a) = %q, want /", got)
	}
}

func TestLookupMiss(t *testing.T) {
	img := make([]byte, 8192)
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	res, err := fsys.lookup("/nope")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if res.found {
		t.Fatalf("lookup found nonexistent path")
	}
	if res.freeSlot != 0 {
		t.Fatalf("freeSlot = %d, want 0 on an empty root", res.freeSlot)
	}
}

func TestLookupThroughNonDirectory(t *testing.T) {
	img := make([]byte, 8192)
	fsys, err := Format(img, 1)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if _, err := fsys.Create("/file"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fsys.lookup("/file/sub"); err != NOTDIR {
		t.Fatalf("lookup through a file = %v, want NOTDIR", err)
	}
}
