package types

import "strings"

// EnvironmentValue is one environment variable as seen in a snapshot.
// ParentKey distinguishes the user and machine scopes.
type EnvironmentValue struct {
	ParentKey string
	Name      string
	Value     string
}

// EnvironmentSnapshot is an unordered set of environment values captured
// at one point in time.
type EnvironmentSnapshot struct {
	Values []EnvironmentValue
}

// InstallerKey is one installed-program entry from the uninstall registry.
type InstallerKey struct {
	KeyPath           string `toml:"keyPath"`
	DisplayName       string `toml:"displayName"`
	DisplayVersion    string `toml:"displayVersion"`
	UninstallString   string `toml:"uninstallString"`
	InstallLocation   string `toml:"installLocation"`
	HasQuietUninstall bool   `toml:"hasQuietUninstall"`
}

// RegistrySnapshot is an ordered set of installed-program entries.
type RegistrySnapshot struct {
	Keys []InstallerKey `toml:"keys"`
}

// Empty reports whether the snapshot has no keys.
func (s RegistrySnapshot) Empty() bool {
	return len(s.Keys) == 0
}

// FileEntry is one captured file with its checksum.
type FileEntry struct {
	Path     string `toml:"path"`
	Checksum string `toml:"checksum"`
}

// FilesSnapshot records the files present under an install location after
// a successful operation.
type FilesSnapshot struct {
	Files []FileEntry `toml:"files"`
}

// PackageInformation is the durable per-package record kept by the
// package-info store from first install until removal.
type PackageInformation struct {
	Metadata PackageMetadata

	RegistrySnapshot *RegistrySnapshot
	FilesSnapshot    *FilesSnapshot

	HasSilentUninstall bool
	IsSideBySide       bool
	IsPinned           bool

	// Arguments is the encrypted argument-replay blob; opaque to the core.
	Arguments string
}

// Key identifies an environment value by scope and name; value changes
// keep the same key.
func (v EnvironmentValue) Key() string {
	return v.ParentKey + "\x00" + strings.ToLower(v.Name)
}
