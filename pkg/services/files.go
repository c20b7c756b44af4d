// Package services carries the default implementations of the
// collaborator interfaces the orchestrator consumes: file capture and
// attribute normalization, the argument codec, the external command
// executor, and logging stand-ins for the scripting host and shim
// generator on hosts where the real ones are absent.
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/types"
)

var log = logging.GetLogger("services")

// FilesService captures file snapshots under a package's install
// location.
type FilesService struct {
	fs types.FS
}

// NewFilesService creates the files service.
func NewFilesService(fsys types.FS) *FilesService {
	return &FilesService{fs: fsys}
}

// NormalizeAttributes strips read-only and system attributes so later
// cleanup can delete package files. Attribute bits only exist on
// Windows; elsewhere this just ensures files are writable.
func (s *FilesService) NormalizeAttributes(result *types.PackageResult, cfg *config.Configuration) {
	if result.InstallLocation == "" {
		return
	}
	for _, file := range filesystem.WalkFiles(s.fs, result.InstallLocation) {
		info, err := s.fs.Stat(file)
		if err != nil {
			continue
		}
		if info.Mode().Perm()&0200 == 0 {
			data, err := s.fs.ReadFile(file)
			if err != nil {
				log.Warn().Err(err).Str("file", file).Msg("Cannot normalize file attributes")
				continue
			}
			if err := s.fs.WriteFile(file, data, info.Mode().Perm()|0200); err != nil {
				log.Warn().Err(err).Str("file", file).Msg("Cannot normalize file attributes")
			}
		}
	}
}

// Capture returns a checksummed snapshot of every file under the install
// location. Unreadable files are recorded without a checksum rather than
// dropped.
func (s *FilesService) Capture(result *types.PackageResult, cfg *config.Configuration) *types.FilesSnapshot {
	snapshot := &types.FilesSnapshot{}
	if result.InstallLocation == "" {
		return snapshot
	}
	for _, file := range filesystem.WalkFiles(s.fs, result.InstallLocation) {
		if strings.EqualFold(filepath.Base(file), ".chocolateyPending") {
			continue
		}
		entry := types.FileEntry{Path: file}
		if data, err := s.fs.ReadFile(file); err == nil {
			sum := sha256.Sum256(data)
			entry.Checksum = hex.EncodeToString(sum[:])
		}
		snapshot.Files = append(snapshot.Files, entry)
	}
	return snapshot
}

// NoopConfigTransform is the default config-transform service; XML
// transforms ship with the licensed scripting host.
type NoopConfigTransform struct{}

func (NoopConfigTransform) Run(result *types.PackageResult, cfg *config.Configuration) {
	log.Trace().Str("package", result.Name).Msg("No configuration transforms to apply")
}
