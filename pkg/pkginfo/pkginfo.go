// Package pkginfo persists the durable per-package record under the
// metadata root, one directory per package version. Records survive
// upgrades of the orchestrator itself, so the on-disk format is plain
// TOML.
package pkginfo

import (
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/paths"
	"github.com/chocoforge/choco/pkg/types"
)

var log = logging.GetLogger("pkginfo")

const recordFileName = "package.toml"

// record is the TOML shape of a PackageInformation.
type record struct {
	ID      string `toml:"id"`
	Version string `toml:"version"`

	RegistrySnapshot *types.RegistrySnapshot `toml:"registrySnapshot,omitempty"`
	FilesSnapshot    *types.FilesSnapshot    `toml:"filesSnapshot,omitempty"`

	HasSilentUninstall bool   `toml:"hasSilentUninstall"`
	IsSideBySide       bool   `toml:"isSideBySide"`
	IsPinned           bool   `toml:"isPinned"`
	Arguments          string `toml:"arguments,omitempty"`
}

// Service is the filesystem-backed PackageInfoService.
type Service struct {
	fs    types.FS
	paths paths.Paths
}

// New creates the package-info store.
func New(fsys types.FS, p paths.Paths) *Service {
	return &Service{fs: fsys, paths: p}
}

// Get loads the record for the package, returning a fresh one when none
// exists yet. A corrupt record is replaced rather than failing the
// operation.
func (s *Service) Get(metadata types.PackageMetadata) *types.PackageInformation {
	info := &types.PackageInformation{Metadata: metadata}

	data, err := s.fs.ReadFile(s.recordPath(metadata))
	if err != nil {
		return info
	}

	var rec record
	if err := toml.Unmarshal(data, &rec); err != nil {
		log.Warn().Err(err).Str("package", metadata.ID).Msg("Corrupt package record; starting fresh")
		return info
	}

	info.RegistrySnapshot = rec.RegistrySnapshot
	info.FilesSnapshot = rec.FilesSnapshot
	info.HasSilentUninstall = rec.HasSilentUninstall
	info.IsSideBySide = rec.IsSideBySide
	info.IsPinned = rec.IsPinned
	info.Arguments = rec.Arguments
	return info
}

// Save writes the record, creating its directory as needed.
func (s *Service) Save(info *types.PackageInformation) {
	dir := s.recordDir(info.Metadata)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		log.Warn().Err(err).Str("package", info.Metadata.ID).Msg("Cannot create package record directory")
		return
	}

	rec := record{
		ID:                 info.Metadata.ID,
		Version:            info.Metadata.Version,
		RegistrySnapshot:   info.RegistrySnapshot,
		FilesSnapshot:      info.FilesSnapshot,
		HasSilentUninstall: info.HasSilentUninstall,
		IsSideBySide:       info.IsSideBySide,
		IsPinned:           info.IsPinned,
		Arguments:          info.Arguments,
	}
	data, err := toml.Marshal(rec)
	if err != nil {
		log.Warn().Err(err).Str("package", info.Metadata.ID).Msg("Cannot serialize package record")
		return
	}
	if err := s.fs.WriteFile(filepath.Join(dir, recordFileName), data, 0644); err != nil {
		log.Warn().Err(err).Str("package", info.Metadata.ID).Msg("Cannot write package record")
	}
}

// Remove drops the record for the package version.
func (s *Service) Remove(metadata types.PackageMetadata) {
	dir := s.recordDir(metadata)
	if err := s.fs.RemoveAll(dir); err != nil {
		log.Warn().Err(err).Str("package", metadata.ID).Msg("Cannot remove package record")
	}
}

func (s *Service) recordDir(metadata types.PackageMetadata) string {
	name := metadata.ID
	if metadata.Version != "" {
		name += "." + metadata.Version
	}
	return filepath.Join(s.paths.MetadataRoot(), name)
}

func (s *Service) recordPath(metadata types.PackageMetadata) string {
	return filepath.Join(s.recordDir(metadata), recordFileName)
}
