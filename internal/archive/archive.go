// Package archive bridges a ZealFS tree to the host's cpio tooling,
// grounded on the newc-format writer distri's initrd builder uses
// (cmd/distri/initrd.go).
package archive

import (
	"io"
	"path"

	"github.com/cavaliercoder/go-cpio"
	"golang.org/x/xerrors"

	zealfs "github.com/zeal8bit/zealfs-go/internal/fs"
)

// Export walks root (recursively) and writes every file and directory
// it contains to w as a newc cpio archive.
func Export(fsys *zealfs.FS, root string, w io.Writer) error {
	wr := cpio.NewWriter(w)
	defer wr.Close()
	if err := exportDir(fsys, root, wr); err != nil {
		return err
	}
	return wr.Close()
}

func exportDir(fsys *zealfs.FS, dirPath string, wr *cpio.Writer) error {
	h, err := fsys.OpenDir(dirPath)
	if err != nil {
		return xerrors.Errorf("OpenDir(%s): %w", dirPath, err)
	}
	entries, err := fsys.ReadDir(h)
	if err != nil {
		return xerrors.Errorf("ReadDir(%s): %w", dirPath, err)
	}

	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		childPath := path.Join(dirPath, e.Name)
		if e.Stat.IsDir {
			if err := wr.WriteHeader(&cpio.Header{
				Name: childPath[1:], // cpio archive paths are relative
				Mode: cpio.ModeDir | 0755,
			}); err != nil {
				return err
			}
			if err := exportDir(fsys, childPath, wr); err != nil {
				return err
			}
			continue
		}

		if err := wr.WriteHeader(&cpio.Header{
			Name: childPath[1:],
			Mode: cpio.FileMode(0644),
			Size: int64(e.Stat.Size),
		}); err != nil {
			return err
		}
		fh, err := fsys.Open(childPath)
		if err != nil {
			return xerrors.Errorf("Open(%s): %w", childPath, err)
		}
		buf := make([]byte, e.Stat.Size)
		if _, err := fsys.Read(fh, 0, buf); err != nil {
			return xerrors.Errorf("Read(%s): %w", childPath, err)
		}
		if _, err := wr.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// Import reads a newc cpio archive from r and recreates its entries
// under root, creating intermediate directories as needed.
func Import(fsys *zealfs.FS, root string, r io.Reader) error {
	rd := cpio.NewReader(r)
	for {
		hdr, err := rd.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		target := path.Join(root, hdr.Name)
		if hdr.Mode.IsDir() {
			if err := mkdirAll(fsys, target); err != nil {
				return xerrors.Errorf("mkdirAll(%s): %w", target, err)
			}
			continue
		}

		if err := mkdirAll(fsys, path.Dir(target)); err != nil {
			return xerrors.Errorf("mkdirAll(%s): %w", path.Dir(target), err)
		}
		h, err := fsys.Create(target)
		if err != nil {
			return xerrors.Errorf("Create(%s): %w", target, err)
		}
		buf := make([]byte, hdr.Size)
		if _, err := io.ReadFull(rd, buf); err != nil {
			return xerrors.Errorf("reading %s: %w", hdr.Name, err)
		}
		if _, err := fsys.Write(h, 0, buf); err != nil {
			return xerrors.Errorf("Write(%s): %w", target, err)
		}
	}
}

func mkdirAll(fsys *zealfs.FS, dirPath string) error {
	if dirPath == "/" || dirPath == "." {
		return nil
	}
	if _, err := fsys.Getattr(dirPath); err == nil {
		return nil
	}
	if err := mkdirAll(fsys, path.Dir(dirPath)); err != nil {
		return err
	}
	err := fsys.Mkdir(dirPath)
	if err != nil && err != zealfs.EXIST {
		return err
	}
	return nil
}
