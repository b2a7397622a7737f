// Command zealfs formats, inspects, mounts, and moves data in and out
// of ZealFS images from the host, dispatching subcommands the way
// distri's cmd/distri/distri.go does.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/zeal8bit/zealfs-go/internal/cliutil"
	"github.com/zeal8bit/zealfs-go/internal/fs"
	"github.com/zeal8bit/zealfs-go/internal/hostimage"
)

var debug = flag.Bool("debug", false, "format error messages with additional detail")

type cmd struct {
	fn   func(ctx context.Context, args []string) error
	help string
}

func verbs() map[string]cmd {
	return map[string]cmd{
		"format":       {fn: cmdFormat, help: "create a new ZealFS image"},
		"fsck":         {fn: cmdFsck, help: "check an image's structural integrity"},
		"mount":        {fn: cmdMount, help: "mount an image as a FUSE file system"},
		"webdav-serve": {fn: cmdWebdavServe, help: "serve an image over WebDAV"},
		"ls":           {fn: cmdLs, help: "list a directory"},
		"cat":          {fn: cmdCat, help: "print a file's contents"},
		"write":        {fn: cmdWrite, help: "write stdin to a file"},
		"rm":           {fn: cmdRm, help: "remove a file"},
		"mkdir":        {fn: cmdMkdir, help: "create a directory"},
		"rmdir":        {fn: cmdRmdir, help: "remove an empty directory"},
		"mv":           {fn: cmdMv, help: "rename a file or directory"},
		"stat":         {fn: cmdStat, help: "print a path's metadata"},
		"export":       {fn: cmdExport, help: "export a directory as a cpio archive"},
		"import":       {fn: cmdImport, help: "import a cpio archive into a directory"},
		"backup":       {fn: cmdBackup, help: "save a gzip-compressed copy of an image"},
		"restore":      {fn: cmdRestore, help: "restore an image from a gzip backup"},
		"fetch-image":  {fn: cmdFetchImage, help: "download a prebuilt OS image from GitHub releases"},
		"status":       {fn: cmdStatus, help: "serve live image counters over HTTP"},
		"version":      {fn: cmdVersion, help: "print the zealfs tool version"},
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "zealfs [-flags] <command> [-flags] <args>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	v := verbs()
	for name, c := range v {
		fmt.Fprintf(os.Stderr, "\t%-14s %s\n", name, c.help)
	}
}

func funcmain() error {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	verb, rest := args[0], args[1:]

	v, ok := verbs()[verb]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n", verb)
		usage()
		os.Exit(1)
	}

	ctx, canc := cliutil.InterruptibleContext()
	defer canc()

	if err := v.fn(ctx, rest); err != nil {
		return &verbError{verb: verb, err: err, debug: *debug}
	}
	return cliutil.RunAtExit()
}

// verbError prefixes a subcommand's error with its verb, formatting the
// wrapped error verbosely (with any xerrors stack trace) under -debug.
// It unwraps to the original error so exitCode can still classify it.
type verbError struct {
	verb  string
	err   error
	debug bool
}

func (e *verbError) Error() string {
	if e.debug {
		return fmt.Sprintf("%s: %+v", e.verb, e.err)
	}
	return fmt.Sprintf("%s: %v", e.verb, e.err)
}

func (e *verbError) Unwrap() error { return e.err }

// exitCode maps an error returned by funcmain to the process exit
// code spec.md §6 assigns it: 1 for option/config errors (the
// default), 2 if the image file could not be opened, 3 if a newly
// created image could not be sized, 4 if the integrity check failed.
func exitCode(err error) int {
	var openErr *hostimage.OpenError
	var sizeErr *hostimage.SizeError
	switch {
	case errors.As(err, &openErr):
		return 2
	case errors.As(err, &sizeErr):
		return 3
	case errors.Is(err, fs.CORRUPT):
		return 4
	default:
		return 1
	}
}

func main() {
	if err := funcmain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
