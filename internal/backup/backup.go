// Package backup saves and restores a whole ZealFS image as a gzip
// blob, grounded on the pgzip + renameio pairing distri's initrd
// builder uses to write its compressed output atomically
// (cmd/distri/initrd.go).
package backup

import (
	"io/ioutil"
	"os"

	"github.com/google/renameio"
	"github.com/klauspost/pgzip"
	"golang.org/x/xerrors"
)

// Save gzip-compresses img and atomically writes it to path.
func Save(path string, img []byte) error {
	out, err := renameio.TempFile("", path)
	if err != nil {
		return xerrors.Errorf("renameio.TempFile: %w", err)
	}
	defer out.Cleanup()

	zw := pgzip.NewWriter(out)
	if _, err := zw.Write(img); err != nil {
		return xerrors.Errorf("writing backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return xerrors.Errorf("closing gzip writer: %w", err)
	}
	if err := out.CloseAtomicallyReplace(); err != nil {
		return xerrors.Errorf("CloseAtomicallyReplace: %w", err)
	}
	return nil
}

// Load decompresses the gzip blob at path back into an image buffer.
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	zr, err := pgzip.NewReader(f)
	if err != nil {
		return nil, xerrors.Errorf("pgzip.NewReader: %w", err)
	}
	defer zr.Close()

	img, err := ioutil.ReadAll(zr)
	if err != nil {
		return nil, xerrors.Errorf("reading backup: %w", err)
	}
	return img, nil
}
