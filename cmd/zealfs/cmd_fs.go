package main

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"golang.org/x/xerrors"

	"github.com/zeal8bit/zealfs-go/internal/fs"
)

const lsHelp = `zealfs ls <image> <path>

List the contents of a directory.
`

func cmdLs(ctx context.Context, args []string) error {
	fset := newFlagSet("ls", lsHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: ls <image> <path>")
	}
	fsys, err := loadImage(fset.Arg(0))
	if err != nil {
		return err
	}
	h, err := fsys.OpenDir(fset.Arg(1))
	if err != nil {
		return err
	}
	entries, err := fsys.ReadDir(h)
	if err != nil {
		return err
	}
	for _, e := range entries {
		kind := "f"
		if e.Stat.IsDir {
			kind = "d"
		}
		fmt.Printf("%s %8d %s\n", kind, e.Stat.Size, e.Name)
	}
	return nil
}

const catHelp = `zealfs cat <image> <path>

Print a file's contents to stdout.
`

func cmdCat(ctx context.Context, args []string) error {
	fset := newFlagSet("cat", catHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: cat <image> <path>")
	}
	fsys, err := loadImage(fset.Arg(0))
	if err != nil {
		return err
	}
	h, err := fsys.Open(fset.Arg(1))
	if err != nil {
		return err
	}
	st, err := fsys.Getattr(fset.Arg(1))
	if err != nil {
		return err
	}
	buf := make([]byte, st.Size)
	if _, err := fsys.Read(h, 0, buf); err != nil {
		return err
	}
	_, err = os.Stdout.Write(buf)
	return err
}

const writeHelp = `zealfs write <image> <path>

Create (or overwrite) a file with stdin's contents.
`

func cmdWrite(ctx context.Context, args []string) error {
	fset := newFlagSet("write", writeHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: write <image> <path>")
	}
	imgPath, path := fset.Arg(0), fset.Arg(1)

	fsys, err := loadImage(imgPath)
	if err != nil {
		return err
	}

	data, err := ioutil.ReadAll(io.LimitReader(os.Stdin, 1<<30))
	if err != nil {
		return err
	}

	if err := fsys.Unlink(path); err != nil && err != fs.NOENT {
		return err
	}
	h, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if _, err := fsys.Write(h, 0, data); err != nil {
		return err
	}
	return flushImage(imgPath, fsys)
}

const rmHelp = `zealfs rm <image> <path>

Remove a file.
`

func cmdRm(ctx context.Context, args []string) error {
	fset := newFlagSet("rm", rmHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: rm <image> <path>")
	}
	imgPath, path := fset.Arg(0), fset.Arg(1)
	fsys, err := loadImage(imgPath)
	if err != nil {
		return err
	}
	if err := fsys.Unlink(path); err != nil {
		return err
	}
	return flushImage(imgPath, fsys)
}

const mkdirHelp = `zealfs mkdir <image> <path>

Create a directory.
`

func cmdMkdir(ctx context.Context, args []string) error {
	fset := newFlagSet("mkdir", mkdirHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: mkdir <image> <path>")
	}
	imgPath, path := fset.Arg(0), fset.Arg(1)
	fsys, err := loadImage(imgPath)
	if err != nil {
		return err
	}
	if err := fsys.Mkdir(path); err != nil {
		return err
	}
	return flushImage(imgPath, fsys)
}

const rmdirHelp = `zealfs rmdir <image> <path>

Remove an empty directory.
`

func cmdRmdir(ctx context.Context, args []string) error {
	fset := newFlagSet("rmdir", rmdirHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: rmdir <image> <path>")
	}
	imgPath, path := fset.Arg(0), fset.Arg(1)
	fsys, err := loadImage(imgPath)
	if err != nil {
		return err
	}
	if err := fsys.Rmdir(path); err != nil {
		return err
	}
	return flushImage(imgPath, fsys)
}

const mvHelp = `zealfs mv [-flags] <image> <from> <to>

Rename or move a file or directory.
`

func cmdMv(ctx context.Context, args []string) error {
	fset := newFlagSet("mv", mvHelp)
	noReplace := fset.Bool("no-replace", false, "fail instead of replacing an existing destination")
	fset.Parse(args)
	if fset.NArg() != 3 {
		return xerrors.Errorf("syntax: mv [-flags] <image> <from> <to>")
	}
	imgPath, from, to := fset.Arg(0), fset.Arg(1), fset.Arg(2)
	fsys, err := loadImage(imgPath)
	if err != nil {
		return err
	}
	flags := fs.RenameDefault
	if *noReplace {
		flags = fs.RenameNoReplace
	}
	if err := fsys.Rename(from, to, flags); err != nil {
		return err
	}
	return flushImage(imgPath, fsys)
}

const statHelp = `zealfs stat <image> <path>

Print a path's metadata.
`

func cmdStat(ctx context.Context, args []string) error {
	fset := newFlagSet("stat", statHelp)
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: stat <image> <path>")
	}
	fsys, err := loadImage(fset.Arg(0))
	if err != nil {
		return err
	}
	st, err := fsys.Getattr(fset.Arg(1))
	if err != nil {
		return err
	}
	fmt.Printf("name:     %s\n", st.Name)
	fmt.Printf("isdir:    %v\n", st.IsDir)
	fmt.Printf("size:     %d\n", st.Size)
	fmt.Printf("modified: %s\n", st.ModTime)
	return nil
}
