package fs

import "golang.org/x/sys/unix"

// Errno is the POSIX-like error taxonomy of the ZealFS core (spec §7).
// It carries no message beyond its kind: callers format it with the
// path or operation that produced it.
type Errno int

const (
	// NOENT means a path component is missing.
	NOENT Errno = iota + 1
	// EXIST means the create/mkdir/rename-NOREPLACE target already exists.
	EXIST
	// ISDIR means an operation that requires a file was given a directory.
	ISDIR
	// NOTDIR means an operation that requires a directory was given a file.
	NOTDIR
	// NOTEMPTY means rmdir was called on a non-empty directory.
	NOTEMPTY
	// NAMETOOLONG means a basename exceeds 16 bytes.
	NAMETOOLONG
	// NFILE means a directory's slot table is full.
	NFILE
	// FBIG means V1 ran out of free pages to satisfy a write or create.
	FBIG
	// NOSPC means V2 ran out of free pages to satisfy a write or create.
	NOSPC
	// NOMEM means no free slot existed in the destination directory
	// during a cross-directory rename.
	NOMEM
	// ACCES means rmdir was called on root.
	ACCES
	// FAULT means rename was called with RENAME_EXCHANGE.
	FAULT
	// CORRUPT means the integrity check failed at load time.
	CORRUPT
)

var names = map[Errno]string{
	NOENT:       "no such file or directory",
	EXIST:       "file exists",
	ISDIR:       "is a directory",
	NOTDIR:      "not a directory",
	NOTEMPTY:    "directory not empty",
	NAMETOOLONG: "name too long",
	NFILE:       "directory full",
	FBIG:        "file too large",
	NOSPC:       "no space left on device",
	NOMEM:       "no free directory slot",
	ACCES:       "permission denied",
	FAULT:       "operation not supported",
	CORRUPT:     "corrupt image",
}

func (e Errno) Error() string {
	if s, ok := names[e]; ok {
		return s
	}
	return "unknown zealfs error"
}

// Syscall maps an Errno to the syscall.Errno a FUSE/POSIX consumer expects.
func (e Errno) Syscall() unix.Errno {
	switch e {
	case NOENT:
		return unix.ENOENT
	case EXIST:
		return unix.EEXIST
	case ISDIR:
		return unix.EISDIR
	case NOTDIR:
		return unix.ENOTDIR
	case NOTEMPTY:
		return unix.ENOTEMPTY
	case NAMETOOLONG:
		return unix.ENAMETOOLONG
	case NFILE:
		return unix.ENFILE
	case FBIG:
		return unix.EFBIG
	case NOSPC:
		return unix.ENOSPC
	case NOMEM:
		return unix.ENOMEM
	case ACCES:
		return unix.EACCES
	case FAULT:
		return unix.EFAULT
	default:
		return unix.EIO
	}
}

// HTTPStatus maps an Errno to the WebDAV/HTTP status code a webdav.FileSystem
// consumer expects (see SPEC_FULL.md §7).
func (e Errno) HTTPStatus() int {
	switch e {
	case NOENT:
		return 404
	case EXIST:
		return 412
	case ISDIR, NOTDIR, NOTEMPTY, FAULT:
		return 400
	case NAMETOOLONG:
		return 400
	case NFILE, FBIG, NOSPC, NOMEM:
		return 507
	case ACCES:
		return 403
	default:
		return 500
	}
}
