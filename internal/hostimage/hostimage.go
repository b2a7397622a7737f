// Package hostimage loads a ZealFS image from, and atomically flushes
// it back to, a regular host file.
package hostimage

import (
	"io/ioutil"
	"os"

	"github.com/google/renameio"
	"golang.org/x/xerrors"
)

// OpenError wraps a failure to open or read an image file — spec.md
// §6 exit code 2 ("the image file cannot be opened").
type OpenError struct{ err error }

func (e *OpenError) Error() string { return e.err.Error() }
func (e *OpenError) Unwrap() error { return e.err }

// SizeError wraps a failure to size a newly created image file —
// spec.md §6 exit code 3 ("the new file cannot be sized").
type SizeError struct{ err error }

func (e *SizeError) Error() string { return e.err.Error() }
func (e *SizeError) Unwrap() error { return e.err }

// Open reads the entire contents of path into memory. The returned
// buffer is suitable for fs.Load or fs.Format.
func Open(path string) ([]byte, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, &OpenError{xerrors.Errorf("reading %s: %w", path, err)}
	}
	return b, nil
}

// Create truncates or creates path to the given size, filled with
// zero bytes, and returns its contents for fs.Format.
func Create(path string, size int64) ([]byte, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, &OpenError{xerrors.Errorf("creating %s: %w", path, err)}
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		return nil, &SizeError{xerrors.Errorf("truncating %s: %w", path, err)}
	}
	return make([]byte, size), nil
}

// Flush atomically overwrites path with img's current contents:
// renameio writes to a temporary file in the same directory and
// renames it into place, so a crash mid-write never leaves a
// half-written image (SPEC §4.11).
func Flush(path string, img []byte) error {
	t, err := renameio.TempFile("", path)
	if err != nil {
		return xerrors.Errorf("renameio.TempFile: %w", err)
	}
	defer t.Cleanup()

	if _, err := t.Write(img); err != nil {
		return xerrors.Errorf("writing %s: %w", path, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return xerrors.Errorf("CloseAtomicallyReplace: %w", err)
	}
	return nil
}
