package main

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/zeal8bit/zealfs-go/internal/backup"
	"github.com/zeal8bit/zealfs-go/internal/fs"
)

const backupHelp = `zealfs backup <image> <backup-file>

Save a gzip-compressed copy of an image.
`

func cmdBackup(ctx context.Context, args []string) error {
	fset := newFlagSet("backup", backupHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: backup <image> <backup-file>")
	}
	fsys, err := loadImage(fset.Arg(0))
	if err != nil {
		return err
	}
	return backup.Save(fset.Arg(1), fsys.Image())
}

const restoreHelp = `zealfs restore <backup-file> <image>

Restore an image from a gzip backup made by zealfs backup.
`

func cmdRestore(ctx context.Context, args []string) error {
	fset := newFlagSet("restore", restoreHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: restore <backup-file> <image>")
	}
	img, err := backup.Load(fset.Arg(0))
	if err != nil {
		return err
	}
	fsys, err := fs.Load(img)
	if err != nil {
		return xerrors.Errorf("restored image failed integrity check: %w", err)
	}
	return flushImage(fset.Arg(1), fsys)
}
