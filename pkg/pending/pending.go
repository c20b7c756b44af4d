// Package pending writes the per-package "operation in progress" marker
// and, when transactional install files are locked, holds an exclusive
// handle on it for the lifetime of the pipeline. A marker that survives a
// crash tells the next run the package directory is suspect.
package pending

import (
	"io"
	"strings"
	"sync"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/paths"
	"github.com/chocoforge/choco/pkg/types"
)

var log = logging.GetLogger("pending")

// Marker manages pending files and their exclusive locks. Locks are keyed
// by lowercased package name; only the coordinator writes, but lookups
// from other goroutines are tolerated.
type Marker struct {
	fs    types.FS
	paths paths.Paths

	mu    sync.Mutex
	locks map[string]io.Closer
}

// New creates a Marker over the given filesystem and paths.
func New(fsys types.FS, p paths.Paths) *Marker {
	return &Marker{
		fs:    fsys,
		paths: p,
		locks: make(map[string]io.Closer),
	}
}

// Set writes the pending marker into the package's install location and,
// if LockTransactionalInstallFiles is enabled, acquires the exclusive
// lock. Failing to acquire the lock is fatal to the operation. Install
// locations equal to the install root or packages root are refused.
func (m *Marker) Set(result *types.PackageResult, cfg *config.Configuration) error {
	if result.InstallLocation == "" || paths.IsProtectedLocation(m.paths, result.InstallLocation) {
		result.RecordError("Install location is not specific enough, cannot run set package to pending:\n Erroneous install location: " + result.InstallLocation)
		return nil
	}

	markerPath := m.paths.PendingMarkerPath(result.InstallLocation)
	if err := m.fs.WriteFile(markerPath, []byte(result.Name), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileCreate, "cannot write pending marker for %s", result.Name)
	}

	if !cfg.Features.LockTransactionalInstallFiles {
		return nil
	}

	handle, err := m.fs.OpenExclusive(markerPath)
	if err != nil {
		return errors.Wrapf(err, errors.ErrPendingLock, "cannot acquire pending lock for %s", result.Name)
	}

	m.mu.Lock()
	if old, ok := m.locks[result.LowerName()]; ok {
		// A stale handle from an earlier attempt; release before replacing.
		_ = old.Close()
	}
	m.locks[result.LowerName()] = handle
	m.mu.Unlock()

	log.Debug().Str("package", result.Name).Str("path", markerPath).Msg("Pending marker set")
	return nil
}

// Remove releases the retained lock handle, if any, and deletes the
// marker file when the result is successful. The same protected-location
// guard as Set applies.
func (m *Marker) Remove(result *types.PackageResult, cfg *config.Configuration) {
	if result.InstallLocation == "" || paths.IsProtectedLocation(m.paths, result.InstallLocation) {
		result.RecordError("Install location is not specific enough, cannot run remove package from pending:\n Erroneous install location: " + result.InstallLocation)
		return
	}

	m.mu.Lock()
	if handle, ok := m.locks[result.LowerName()]; ok {
		if err := handle.Close(); err != nil {
			log.Warn().Err(err).Str("package", result.Name).Msg("Cannot release pending lock")
		}
		delete(m.locks, result.LowerName())
	}
	m.mu.Unlock()

	if !result.Success {
		return
	}

	markerPath := m.paths.PendingMarkerPath(result.InstallLocation)
	if !filesystem.FileExists(m.fs, markerPath) {
		return
	}
	if err := m.fs.Remove(markerPath); err != nil {
		log.Warn().Err(err).Str("package", result.Name).Str("path", markerPath).Msg("Cannot remove pending marker")
		return
	}
	log.Debug().Str("package", result.Name).Msg("Pending marker removed")
}

// HoldsLock reports whether a lock handle is retained for the package;
// used by tests to verify handles are never leaked.
func (m *Marker) HoldsLock(packageName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.locks[strings.ToLower(packageName)]
	return ok
}
