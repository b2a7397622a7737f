package main

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/net/webdav"
	"golang.org/x/xerrors"

	"github.com/zeal8bit/zealfs-go/internal/cliutil"
	"github.com/zeal8bit/zealfs-go/internal/fs"
	"github.com/zeal8bit/zealfs-go/internal/fuseadapter"
	"github.com/zeal8bit/zealfs-go/internal/hostimage"
	"github.com/zeal8bit/zealfs-go/internal/statusserver"
	"github.com/zeal8bit/zealfs-go/internal/webdavadapter"
)

const mountHelp = `zealfs mount [-flags] <image> <mountpoint>

Mount a ZealFS image as a FUSE file system. Changes are flushed back
to the image file when the process is interrupted.

Example:
  % zealfs mount -mbr disk.img /mnt/zeal
`

func cmdMount(ctx context.Context, args []string) error {
	fset := newFlagSet("mount", mountHelp)
	mbr := fset.Bool("mbr", false, "the image is inside an MBR partition (or a raw fallback)")
	fset.Parse(args)
	if fset.NArg() != 2 {
		return xerrors.Errorf("syntax: mount [-flags] <image> <mountpoint>")
	}
	imgPath, mountpoint := fset.Arg(0), fset.Arg(1)

	var fsys *fs.FS
	var flush func() error
	if *mbr {
		var raw []byte
		var err error
		fsys, raw, err = loadPartitioned(imgPath)
		if err != nil {
			return err
		}
		flush = func() error { return hostimage.Flush(imgPath, raw) }
	} else {
		var err error
		fsys, err = loadImage(imgPath)
		if err != nil {
			return err
		}
		flush = func() error { return flushImage(imgPath, fsys) }
	}
	cliutil.RegisterAtExit(flush)

	join, err := fuseadapter.Mount(ctx, fsys, mountpoint)
	if err != nil {
		return xerrors.Errorf("mount: %w", err)
	}
	if err := join(ctx); err != nil {
		return xerrors.Errorf("join: %w", err)
	}
	return flush()
}

const webdavServeHelp = `zealfs webdav-serve [-flags] <image>

Serve a ZealFS image over WebDAV.

Example:
  % zealfs webdav-serve -listen :8080 disk.img
`

func cmdWebdavServe(ctx context.Context, args []string) error {
	fset := newFlagSet("webdav-serve", webdavServeHelp)
	listen := fset.String("listen", "localhost:8080", "address to listen on")
	fset.Parse(args)
	if fset.NArg() != 1 {
		return xerrors.Errorf("syntax: webdav-serve [-flags] <image>")
	}
	imgPath := fset.Arg(0)

	fsys, err := loadImage(imgPath)
	if err != nil {
		return err
	}

	handler := &webdav.Handler{
		FileSystem: webdavadapter.New(fsys),
		LockSystem: webdav.NewMemLS(),
		Logger: func(r *http.Request, err error) {
			if err != nil {
				log.Printf("WEBDAV %s %s: %v", r.Method, r.URL, err)
			}
		},
	}

	srv := &http.Server{Addr: *listen, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	log.Printf("serving %s over WebDAV on %s", imgPath, *listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return flushImage(imgPath, fsys)
}

const statusHelp = `zealfs status [-flags] <image>

Serve an image's live counters as JSON at GET /status.
`

func cmdStatus(ctx context.Context, args []string) error {
	fset := newFlagSet("status", statusHelp)
	listen := fset.String("listen", "localhost:6070", "address to listen on")
	fset.Parse(args)
	if fset.NArg() != 1 {
		return xerrors.Errorf("syntax: status [-flags] <image>")
	}
	fsys, err := loadImage(fset.Arg(0))
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: *listen, Handler: statusserver.Handler(fsys)}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	log.Printf("serving status on %s", *listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
