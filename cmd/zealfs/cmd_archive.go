package main

import (
	"context"
	"os"

	"golang.org/x/xerrors"

	"github.com/zeal8bit/zealfs-go/internal/archive"
)

const exportHelp = `zealfs export <image> <path>

Export a directory (recursively) as a newc cpio archive on stdout.

Example:
  % zealfs export disk.img / > disk.cpio
`

func cmdExport(ctx context.Context, args []string) error {
	fset := newFlagSet("export", exportHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: export <image> <path>")
	}
	fsys, err := loadImage(fset.Arg(0))
	if err != nil {
		return err
	}
	return archive.Export(fsys, fset.Arg(1), os.Stdout)
}

const importHelp = `zealfs import <image> <path>

Import a newc cpio archive from stdin into a directory.

Example:
  % zealfs import disk.img / < disk.cpio
`

func cmdImport(ctx context.Context, args []string) error {
	fset := newFlagSet("import", importHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: import <image> <path>")
	}
	imgPath, path := fset.Arg(0), fset.Arg(1)
	fsys, err := loadImage(imgPath)
	if err != nil {
		return err
	}
	if err := archive.Import(fsys, path, os.Stdin); err != nil {
		return err
	}
	return flushImage(imgPath, fsys)
}
