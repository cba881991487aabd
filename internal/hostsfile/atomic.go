package hostsfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"hostsmod/pkg/utils"
)

// DefaultSuffix names the sibling file the new contents are staged in
const DefaultSuffix = ".new"

// ErrStaleFile indicates the staging file already exists, most likely left
// behind by an earlier failed run. It is never removed automatically.
var ErrStaleFile = errors.New("hostsfile: staging file exists, manual intervention required")

// WriteAtomic replaces path with data.
//
// Steps:
//  1. Create path+suffix exclusively, with the permissions of path
//  2. Write data and truncate to its length
//  3. Fsync and close
//  4. Rename over path
//  5. Fsync the parent directory
//
// A staging file created by this call is removed again if a step before
// the rename fails. path stays untouched in that case.
func WriteAtomic(path, suffix string, data []byte) error {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return utils.WrapPathError(err, "stat", path)
	}

	tmpPath := path + suffix
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrStaleFile, tmpPath)
		}
		return utils.WrapPathError(err, "create", tmpPath)
	}

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	// umask may have masked the requested bits
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return utils.WrapPathError(err, "chmod", tmpPath)
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return utils.WrapPathError(err, "write", tmpPath)
	}
	if err := tmp.Truncate(int64(len(data))); err != nil {
		cleanup()
		return utils.WrapPathError(err, "truncate", tmpPath)
	}
	if err := unix.Fsync(int(tmp.Fd())); err != nil {
		cleanup()
		return utils.WrapPathError(err, "fsync", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return utils.WrapPathError(err, "close", tmpPath)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return utils.WrapPathError(err, "rename", tmpPath)
	}

	// The contents are in place already, a failure here only weakens
	// crash consistency.
	utils.CheckWarn(syncDir(filepath.Dir(path)), "sync directory")
	return nil
}

func syncDir(dir string) error {
	fd, err := unix.Open(dir, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return utils.WrapPathError(err, "open", dir)
	}
	defer unix.Close(fd)
	return unix.Fsync(fd)
}
