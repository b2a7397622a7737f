package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zeal8bit/zealfs-go/internal/fs"
	"github.com/zeal8bit/zealfs-go/internal/hostimage"
)

// newFlagSet mirrors distri's per-subcommand flag set, printing name
// and usage consistently across every zealfs subcommand.
func newFlagSet(name, help string) *flag.FlagSet {
	fset := flag.NewFlagSet(name, flag.ExitOnError)
	fset.Usage = func() {
		fmt.Fprintln(os.Stderr, help)
		fmt.Fprintf(os.Stderr, "Flags for zealfs %s:\n", fset.Name())
		fset.PrintDefaults()
	}
	return fset
}

// loadImage opens path from the host file system and parses it as a
// ZealFS image.
func loadImage(path string) (*fs.FS, error) {
	img, err := hostimage.Open(path)
	if err != nil {
		return nil, err
	}
	return fs.Load(img)
}

// flushImage writes fsys's current backing buffer back to path.
func flushImage(path string, fsys *fs.FS) error {
	return hostimage.Flush(path, fsys.Image())
}

// loadPartitioned opens path as a raw host file that may carry an MBR
// (SPEC §4.8): it locates the ZealFS partition via fs.FindPartition
// (which also covers the signature-less raw-image fallback) and loads
// it. The caller must flush the returned raw buffer, not fsys.Image(),
// so that an MBR header and any sibling partitions survive the write
// back — fsys's region is a sub-slice of raw sharing its backing array,
// so mutations through fsys are already reflected in raw.
func loadPartitioned(path string) (fsys *fs.FS, raw []byte, err error) {
	raw, err = hostimage.Open(path)
	if err != nil {
		return nil, nil, err
	}
	region, err := fs.FindPartition(raw)
	if err != nil {
		return nil, nil, err
	}
	fsys, err = fs.Load(region)
	if err != nil {
		return nil, nil, err
	}
	return fsys, raw, nil
}
