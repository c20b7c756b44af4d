package filesystem

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/types"
)

// FileExists reports whether path exists and is a regular file.
func FileExists(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists reports whether path exists and is a directory.
func DirExists(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// ListFiles returns the paths of regular files directly under dir, sorted.
// A missing directory yields an empty list.
func ListFiles(fsys types.FS, dir string) []string {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}

// WalkFiles returns every regular file under root, depth first, sorted
// within each directory.
func WalkFiles(fsys types.FS, root string) []string {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		return nil
	}
	var files []string
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		child := filepath.Join(root, e.Name())
		if e.IsDir() {
			files = append(files, WalkFiles(fsys, child)...)
		} else {
			files = append(files, child)
		}
	}
	return files
}

// CopyDirectory copies src into dst recursively, creating dst. File modes
// are not preserved beyond the default; package payloads do not rely on
// them.
func CopyDirectory(fsys types.FS, src, dst string) error {
	if err := fsys.MkdirAll(dst, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dst)
	}
	entries, err := fsys.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", src)
	}
	for _, e := range entries {
		srcChild := filepath.Join(src, e.Name())
		dstChild := filepath.Join(dst, e.Name())
		if e.IsDir() {
			if err := CopyDirectory(fsys, srcChild, dstChild); err != nil {
				return err
			}
			continue
		}
		data, err := fsys.ReadFile(srcChild)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", srcChild)
		}
		if err := fsys.WriteFile(dstChild, data, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrFileCreate, "cannot write %s", dstChild)
		}
	}
	return nil
}

// MoveDirectory moves src to dst, preferring a rename and falling back to
// copy+delete across filesystems.
func MoveDirectory(fsys types.FS, src, dst string) error {
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create parent of %s", dst)
	}
	if err := fsys.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyDirectory(fsys, src, dst); err != nil {
		return errors.Wrapf(err, errors.ErrDirMove, "cannot move %s to %s", src, dst)
	}
	if err := fsys.RemoveAll(src); err != nil {
		return errors.Wrapf(err, errors.ErrDirMove, "moved %s but cannot remove source", src)
	}
	return nil
}

// IsLocalOrUNCPath reports whether token looks like a filesystem path
// rather than a package id: rooted, drive-lettered, UNC, or dotted
// relative.
func IsLocalOrUNCPath(token string) bool {
	if token == "" {
		return false
	}
	if strings.HasPrefix(token, `\\`) || strings.HasPrefix(token, "//") {
		return true
	}
	if strings.HasPrefix(token, "./") || strings.HasPrefix(token, ".\\") ||
		strings.HasPrefix(token, "../") || strings.HasPrefix(token, "..\\") {
		return true
	}
	if filepath.IsAbs(token) {
		return true
	}
	// Windows drive letters on any platform; package ids never contain ':'.
	if len(token) >= 2 && token[1] == ':' {
		return true
	}
	return strings.ContainsAny(token, `/\`)
}
