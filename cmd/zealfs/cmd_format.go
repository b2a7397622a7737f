package main

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/zeal8bit/zealfs-go/internal/fs"
	"github.com/zeal8bit/zealfs-go/internal/hostimage"
)

const formatHelp = `zealfs format [-flags] <image>

Create a new ZealFS image at the given host path.

Example:
  % zealfs format -version 2 -size 1048576 disk.img
  % zealfs format -version 2 -size 1048576 -mbr disk.img
`

func cmdFormat(ctx context.Context, args []string) error {
	fset := newFlagSet("format", formatHelp)
	var (
		version = fset.Int("version", 2, "on-disk format version (1 or 2)")
		size    = fset.Int64("size", 1<<20, "image size in bytes (the partition size with -mbr)")
		mbr     = fset.Bool("mbr", false, "wrap the image in an MBR partition table (V2 only)")
	)
	fset.Parse(args)
	if fset.NArg() != 1 {
		return xerrors.Errorf("syntax: format [-flags] <image>")
	}
	path := fset.Arg(0)

	if *mbr && *version != 2 {
		return xerrors.Errorf("-mbr requires -version 2")
	}

	hostSize := *size
	if *mbr {
		// The MBR takes one 512-byte sector ahead of the partition.
		hostSize += 512
	}
	img, err := hostimage.Create(path, hostSize)
	if err != nil {
		return err
	}

	region := img
	if *mbr {
		region, err = fs.CreatePartition(img)
		if err != nil {
			return xerrors.Errorf("CreatePartition: %w", err)
		}
	}
	if _, err := fs.Format(region, *version); err != nil {
		return xerrors.Errorf("Format: %w", err)
	}
	return hostimage.Flush(path, img)
}

const fsckHelp = `zealfs fsck [-flags] <image>

Check an image's structural integrity (magic byte, bitmap size, and
free-page accounting) without modifying it.
`

func cmdFsck(ctx context.Context, args []string) error {
	fset := newFlagSet("fsck", fsckHelp)
	mbr := fset.Bool("mbr", false, "the image is inside an MBR partition (or a raw fallback)")
	fset.Parse(args)
	if fset.NArg() != 1 {
		return xerrors.Errorf("syntax: fsck [-flags] <image>")
	}

	var err error
	if *mbr {
		_, _, err = loadPartitioned(fset.Arg(0))
	} else {
		_, err = loadImage(fset.Arg(0))
	}
	if err != nil {
		return xerrors.Errorf("fsck failed: %w", err)
	}
	return nil
}
