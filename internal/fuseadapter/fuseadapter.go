// Package fuseadapter exposes a *fs.FS as a FUSE file system using
// jacobsa/fuse, translating between FUSE's inode-based protocol and
// the core package's path-based operations.
package fuseadapter

import (
	"context"
	"os"
	"path"
	"sync"
	"time"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	zealfs "github.com/zeal8bit/zealfs-go/internal/fs"
)

// never caches attributes forever. ZealFS images are not expected to
// be modified by anything other than this process, so long TTLs are
// safe and avoid a GETATTR round trip per access.
var never = time.Now().Add(365 * 24 * time.Hour)

type adapter struct {
	fuseutil.NotImplementedFileSystem

	fsys *zealfs.FS

	mu        sync.Mutex
	paths     map[fuseops.InodeID]string
	nextInode fuseops.InodeID
}

// New wraps fsys as a fuseutil.FileSystem.
func New(fsys *zealfs.FS) fuseutil.FileSystem {
	return &adapter{
		fsys:      fsys,
		paths:     map[fuseops.InodeID]string{fuseops.RootInodeID: "/"},
		nextInode: fuseops.RootInodeID,
	}
}

// Mount mounts the adapter at mountpoint and returns a join function
// that blocks (honoring ctx cancellation) until the file system is
// unmounted, mirroring the distri fuse subcommand's Mount/join split.
func Mount(ctx context.Context, fsys *zealfs.FS, mountpoint string) (join func(context.Context) error, err error) {
	server := fuseutil.NewFileSystemServer(New(fsys))
	mfs, err := fuse.Mount(mountpoint, server, &fuse.MountConfig{
		FSName:   "zealfs",
		ReadOnly: false,
	})
	if err != nil {
		return nil, xerrors.Errorf("fuse.Mount: %w", err)
	}

	var eg errgroup.Group
	eg.Go(func() error {
		<-ctx.Done()
		return fuse.Unmount(mountpoint)
	})
	join = func(context.Context) error {
		if err := mfs.Join(ctx); err != nil {
			return err
		}
		return eg.Wait()
	}
	return join, nil
}

func errnoToFuse(err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(zealfs.Errno); ok {
		return e.Syscall()
	}
	return err
}

func (a *adapter) pathOf(id fuseops.InodeID) (string, bool) {
	p, ok := a.paths[id]
	return p, ok
}

// inodeFor returns the existing inode assigned to p, allocating one
// if this is the first time p has been seen. Must be called with a.mu
// held.
func (a *adapter) inodeFor(p string) fuseops.InodeID {
	for id, existing := range a.paths {
		if existing == p {
			return id
		}
	}
	a.nextInode++
	a.paths[a.nextInode] = p
	return a.nextInode
}

func attrFromStat(st zealfs.Stat) fuseops.InodeAttributes {
	mode := os.FileMode(0644)
	if st.IsDir {
		mode = os.ModeDir | 0755
	}
	return fuseops.InodeAttributes{
		Size:  st.Size,
		Nlink: 1,
		Mode:  mode,
		Atime: st.ModTime,
		Mtime: st.ModTime,
		Ctime: st.ModTime,
	}
}

func (a *adapter) StatFS(ctx context.Context, op *fuseops.StatFSOp) error {
	op.BlockSize = uint32(a.fsys.PageSize())
	op.Blocks = uint64(a.fsys.MaxPages())
	op.BlocksFree = uint64(a.fsys.FreePages())
	op.BlocksAvailable = op.BlocksFree
	op.IoSize = uint32(a.fsys.PageSize())
	return nil
}

func (a *adapter) LookUpInode(ctx context.Context, op *fuseops.LookUpInodeOp) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	parent, ok := a.pathOf(op.Parent)
	if !ok {
		return fuse.EIO
	}
	child := path.Join(parent, op.Name)

	st, err := a.fsys.Getattr(child)
	if err != nil {
		return errnoToFuse(err)
	}

	op.Entry.Child = a.inodeFor(child)
	op.Entry.Attributes = attrFromStat(st)
	op.Entry.AttributesExpiration = never
	op.Entry.EntryExpiration = never
	return nil
}

func (a *adapter) GetInodeAttributes(ctx context.Context, op *fuseops.GetInodeAttributesOp) error {
	a.mu.Lock()
	p, ok := a.pathOf(op.Inode)
	a.mu.Unlock()
	if !ok {
		return fuse.ENOENT
	}

	st, err := a.fsys.Getattr(p)
	if err != nil {
		return errnoToFuse(err)
	}
	op.Attributes = attrFromStat(st)
	op.AttributesExpiration = never
	return nil
}

func (a *adapter) MkDir(ctx context.Context, op *fuseops.MkDirOp) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	parent, ok := a.pathOf(op.Parent)
	if !ok {
		return fuse.EIO
	}
	child := path.Join(parent, op.Name)
	if err := a.fsys.Mkdir(child); err != nil {
		return errnoToFuse(err)
	}
	st, err := a.fsys.Getattr(child)
	if err != nil {
		return errnoToFuse(err)
	}
	op.Entry.Child = a.inodeFor(child)
	op.Entry.Attributes = attrFromStat(st)
	op.Entry.AttributesExpiration = never
	op.Entry.EntryExpiration = never
	return nil
}

func (a *adapter) CreateFile(ctx context.Context, op *fuseops.CreateFileOp) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	parent, ok := a.pathOf(op.Parent)
	if !ok {
		return fuse.EIO
	}
	child := path.Join(parent, op.Name)
	if _, err := a.fsys.Create(child); err != nil {
		return errnoToFuse(err)
	}
	st, err := a.fsys.Getattr(child)
	if err != nil {
		return errnoToFuse(err)
	}
	op.Entry.Child = a.inodeFor(child)
	op.Entry.Attributes = attrFromStat(st)
	op.Entry.AttributesExpiration = never
	op.Entry.EntryExpiration = never
	return nil
}

func (a *adapter) OpenDir(ctx context.Context, op *fuseops.OpenDirOp) error {
	a.mu.Lock()
	_, ok := a.pathOf(op.Inode)
	a.mu.Unlock()
	if !ok {
		return fuse.ENOENT
	}
	return nil
}

func (a *adapter) ReadDir(ctx context.Context, op *fuseops.ReadDirOp) error {
	a.mu.Lock()
	p, ok := a.pathOf(op.Inode)
	a.mu.Unlock()
	if !ok {
		return fuse.EIO
	}

	h, err := a.fsys.OpenDir(p)
	if err != nil {
		return errnoToFuse(err)
	}
	entries, err := a.fsys.ReadDir(h)
	if err != nil {
		return errnoToFuse(err)
	}

	var dirents []fuseutil.Dirent
	a.mu.Lock()
	for _, e := range entries {
		typ := fuseutil.DT_File
		if e.Stat.IsDir {
			typ = fuseutil.DT_Directory
		}
		childPath := p
		switch e.Name {
		case ".":
			childPath = p
		case "..":
			childPath = path.Dir(p)
		default:
			childPath = path.Join(p, e.Name)
		}
		dirents = append(dirents, fuseutil.Dirent{
			Offset: fuseops.DirOffset(len(dirents) + 1),
			Inode:  a.inodeFor(childPath),
			Name:   e.Name,
			Type:   typ,
		})
	}
	a.mu.Unlock()

	if op.Offset > fuseops.DirOffset(len(dirents)) {
		return fuse.EIO
	}
	for _, d := range dirents[op.Offset:] {
		n := fuseutil.WriteDirent(op.Dst[op.BytesRead:], d)
		if n == 0 {
			break
		}
		op.BytesRead += n
	}
	return nil
}

func (a *adapter) OpenFile(ctx context.Context, op *fuseops.OpenFileOp) error {
	a.mu.Lock()
	_, ok := a.pathOf(op.Inode)
	a.mu.Unlock()
	if !ok {
		return fuse.ENOENT
	}
	return nil
}

func (a *adapter) ReadFile(ctx context.Context, op *fuseops.ReadFileOp) error {
	a.mu.Lock()
	p, ok := a.pathOf(op.Inode)
	a.mu.Unlock()
	if !ok {
		return fuse.EIO
	}

	h, err := a.fsys.Open(p)
	if err != nil {
		return errnoToFuse(err)
	}
	n, err := a.fsys.Read(h, op.Offset, op.Dst)
	op.BytesRead = n
	return errnoToFuse(err)
}

func (a *adapter) WriteFile(ctx context.Context, op *fuseops.WriteFileOp) error {
	a.mu.Lock()
	p, ok := a.pathOf(op.Inode)
	a.mu.Unlock()
	if !ok {
		return fuse.EIO
	}

	h, err := a.fsys.Open(p)
	if err != nil {
		return errnoToFuse(err)
	}
	_, err = a.fsys.Write(h, op.Offset, op.Data)
	return errnoToFuse(err)
}

func (a *adapter) RmDir(ctx context.Context, op *fuseops.RmDirOp) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	parent, ok := a.pathOf(op.Parent)
	if !ok {
		return fuse.EIO
	}
	child := path.Join(parent, op.Name)
	if err := a.fsys.Rmdir(child); err != nil {
		return errnoToFuse(err)
	}
	for id, p := range a.paths {
		if p == child {
			delete(a.paths, id)
			break
		}
	}
	return nil
}

func (a *adapter) Unlink(ctx context.Context, op *fuseops.UnlinkOp) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	parent, ok := a.pathOf(op.Parent)
	if !ok {
		return fuse.EIO
	}
	child := path.Join(parent, op.Name)
	if err := a.fsys.Unlink(child); err != nil {
		return errnoToFuse(err)
	}
	for id, p := range a.paths {
		if p == child {
			delete(a.paths, id)
			break
		}
	}
	return nil
}

func (a *adapter) Rename(ctx context.Context, op *fuseops.RenameOp) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	oldParent, ok := a.pathOf(op.OldParent)
	if !ok {
		return fuse.EIO
	}
	newParent, ok := a.pathOf(op.NewParent)
	if !ok {
		return fuse.EIO
	}
	from := path.Join(oldParent, op.OldName)
	to := path.Join(newParent, op.NewName)

	if err := a.fsys.Rename(from, to, zealfs.RenameDefault); err != nil {
		return errnoToFuse(err)
	}
	for id, p := range a.paths {
		if p == from {
			a.paths[id] = to
			break
		}
	}
	return nil
}

func (a *adapter) Destroy() {}
