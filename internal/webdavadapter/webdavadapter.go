// Package webdavadapter exposes a *fs.FS as a golang.org/x/net/webdav
// file system, giving ZealFS images a second, FUSE-free mount path
// that works on any OS net/http can serve on.
package webdavadapter

import (
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/net/webdav"

	zealfs "github.com/zeal8bit/zealfs-go/internal/fs"
)

type fileSystem struct {
	fsys *zealfs.FS
}

// New wraps fsys as a webdav.FileSystem. Locking is left to the
// caller's webdav.Handler (typically webdav.NewMemLS()).
func New(fsys *zealfs.FS) webdav.FileSystem {
	return &fileSystem{fsys: fsys}
}

func errnoToOS(err error) error {
	switch err {
	case nil:
		return nil
	case zealfs.NOENT:
		return os.ErrNotExist
	case zealfs.EXIST:
		return os.ErrExist
	case zealfs.ACCES:
		return os.ErrPermission
	default:
		return err
	}
}

func (wfs *fileSystem) Mkdir(ctx context.Context, name string, perm os.FileMode) error {
	return errnoToOS(wfs.fsys.Mkdir(name))
}

func (wfs *fileSystem) RemoveAll(ctx context.Context, name string) error {
	st, err := wfs.fsys.Getattr(name)
	if err != nil {
		return errnoToOS(err)
	}
	if st.IsDir {
		return errnoToOS(wfs.fsys.Rmdir(name))
	}
	return errnoToOS(wfs.fsys.Unlink(name))
}

func (wfs *fileSystem) Rename(ctx context.Context, oldName, newName string) error {
	return errnoToOS(wfs.fsys.Rename(oldName, newName, zealfs.RenameDefault))
}

func (wfs *fileSystem) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	st, err := wfs.fsys.Getattr(name)
	if err != nil {
		return nil, errnoToOS(err)
	}
	return fileInfo{st}, nil
}

func (wfs *fileSystem) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (webdav.File, error) {
	isDir := false
	if st, err := wfs.fsys.Getattr(name); err == nil {
		isDir = st.IsDir
	} else if err != zealfs.NOENT {
		return nil, errnoToOS(err)
	} else if flag&os.O_CREATE != 0 {
		if _, err := wfs.fsys.Create(name); err != nil {
			return nil, errnoToOS(err)
		}
	} else {
		return nil, errnoToOS(err)
	}

	if isDir {
		h, err := wfs.fsys.OpenDir(name)
		if err != nil {
			return nil, errnoToOS(err)
		}
		return &dirFile{fsys: wfs.fsys, path: name, handle: h}, nil
	}

	h, err := wfs.fsys.Open(name)
	if err != nil {
		return nil, errnoToOS(err)
	}
	return &file{fsys: wfs.fsys, path: name, handle: h}, nil
}

type fileInfo struct {
	st zealfs.Stat
}

func (fi fileInfo) Name() string { return fi.st.Name }
func (fi fileInfo) Size() int64  { return int64(fi.st.Size) }
func (fi fileInfo) Mode() os.FileMode {
	if fi.st.IsDir {
		return os.ModeDir | 0755
	}
	return 0644
}
func (fi fileInfo) ModTime() time.Time { return fi.st.ModTime }
func (fi fileInfo) IsDir() bool        { return fi.st.IsDir }
func (fi fileInfo) Sys() interface{}   { return nil }

// file implements webdav.File over a single ZealFS file handle.
type file struct {
	fsys   *zealfs.FS
	path   string
	handle zealfs.Handle
	off    int64
}

func (f *file) Close() error { return nil }

func (f *file) Read(p []byte) (int, error) {
	n, err := f.fsys.Read(f.handle, f.off, p)
	f.off += int64(n)
	if err != nil {
		return n, errnoToOS(err)
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (f *file) Write(p []byte) (int, error) {
	n, err := f.fsys.Write(f.handle, f.off, p)
	f.off += int64(n)
	return n, errnoToOS(err)
}

func (f *file) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		f.off = offset
	case io.SeekCurrent:
		f.off += offset
	case io.SeekEnd:
		st, err := f.fsys.Getattr(f.path)
		if err != nil {
			return 0, errnoToOS(err)
		}
		f.off = int64(st.Size) + offset
	}
	return f.off, nil
}

func (f *file) Readdir(count int) ([]os.FileInfo, error) { return nil, os.ErrInvalid }

func (f *file) Stat() (os.FileInfo, error) {
	st, err := f.fsys.Getattr(f.path)
	if err != nil {
		return nil, errnoToOS(err)
	}
	return fileInfo{st}, nil
}

// dirFile implements webdav.File over a directory handle.
type dirFile struct {
	fsys   *zealfs.FS
	path   string
	handle zealfs.Handle
}

func (d *dirFile) Close() error                            { return nil }
func (d *dirFile) Read(p []byte) (int, error)               { return 0, os.ErrInvalid }
func (d *dirFile) Write(p []byte) (int, error)              { return 0, os.ErrInvalid }
func (d *dirFile) Seek(int64, int) (int64, error)           { return 0, os.ErrInvalid }

func (d *dirFile) Readdir(count int) ([]os.FileInfo, error) {
	entries, err := d.fsys.ReadDir(d.handle)
	if err != nil {
		return nil, errnoToOS(err)
	}
	out := make([]os.FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		out = append(out, fileInfo{e.Stat})
	}
	return out, nil
}

func (d *dirFile) Stat() (os.FileInfo, error) {
	st, err := d.fsys.Getattr(d.path)
	if err != nil {
		return nil, errnoToOS(err)
	}
	return fileInfo{st}, nil
}
