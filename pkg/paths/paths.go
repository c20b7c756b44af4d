// Package paths provides centralized path handling for choco. All of the
// persisted-state roots (packages, package-failures, package-backup, the
// sideload roots) hang off one install root, resolved from the
// ChocolateyInstall environment variable with an XDG fallback for
// non-Windows development machines.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvInstallRoot is the primary environment variable for the install
	// location.
	EnvInstallRoot = "ChocolateyInstall"

	// EnvToolsLocation is where packages may drop portable tools.
	EnvToolsLocation = "ChocolateyToolsLocation"

	// EnvPackageInstallLocation is published for the benefit of package
	// scripts and child processes.
	EnvPackageInstallLocation = "ChocolateyPackageInstallLocation"

	// EnvPackageInstallerType is read back from the scripting host.
	EnvPackageInstallerType = "ChocolateyPackageInstallerType"
)

// Directory and file names fixed by the on-disk layout. These are not
// user-configurable; records written by one installation must be readable
// by the next.
const (
	// LibDirName holds installed packages.
	LibDirName = "lib"

	// LibFailuresDirName quarantines failed installs.
	LibFailuresDirName = "lib-bad"

	// LibBackupDirName holds rollback snapshots.
	LibBackupDirName = "lib-bkp"

	// ExtensionsDirName, TemplatesDirName and HooksDirName receive
	// sideloaded payloads.
	ExtensionsDirName = "extensions"
	TemplatesDirName  = "templates"
	HooksDirName      = "hooks"

	// MetadataDirName holds the per-package durable records.
	MetadataDirName = ".chocolatey"

	// PendingFileName marks a package directory with an operation in
	// progress.
	PendingFileName = ".chocolateyPending"

	// ConfigFileName is the optional settings file under the install root.
	ConfigFileName = "config.toml"
)

// Paths resolves every location the orchestrator persists state in.
type Paths interface {
	InstallRoot() string
	PackagesRoot() string
	PackageFailuresRoot() string
	PackageBackupRoot() string
	ExtensionsRoot() string
	TemplatesRoot() string
	HooksRoot() string
	MetadataRoot() string
	ConfigFilePath() string

	PackagePath(name string) string
	PendingMarkerPath(installLocation string) string
}

type chocoPaths struct {
	installRoot string
}

// New resolves the install root from the environment, falling back to the
// XDG data directory so development runs on non-Windows hosts have a sane
// sandbox.
func New() Paths {
	root := os.Getenv(EnvInstallRoot)
	if root == "" {
		root = filepath.Join(xdg.DataHome, "choco")
	}
	return NewAt(root)
}

// NewAt uses the given install root verbatim; tests use this.
func NewAt(installRoot string) Paths {
	return &chocoPaths{installRoot: filepath.Clean(installRoot)}
}

func (p *chocoPaths) InstallRoot() string         { return p.installRoot }
func (p *chocoPaths) PackagesRoot() string        { return filepath.Join(p.installRoot, LibDirName) }
func (p *chocoPaths) PackageFailuresRoot() string { return filepath.Join(p.installRoot, LibFailuresDirName) }
func (p *chocoPaths) PackageBackupRoot() string   { return filepath.Join(p.installRoot, LibBackupDirName) }
func (p *chocoPaths) ExtensionsRoot() string      { return filepath.Join(p.installRoot, ExtensionsDirName) }
func (p *chocoPaths) TemplatesRoot() string       { return filepath.Join(p.installRoot, TemplatesDirName) }
func (p *chocoPaths) HooksRoot() string           { return filepath.Join(p.installRoot, HooksDirName) }
func (p *chocoPaths) MetadataRoot() string        { return filepath.Join(p.installRoot, MetadataDirName) }
func (p *chocoPaths) ConfigFilePath() string      { return filepath.Join(p.installRoot, ConfigFileName) }

func (p *chocoPaths) PackagePath(name string) string {
	return filepath.Join(p.PackagesRoot(), name)
}

func (p *chocoPaths) PendingMarkerPath(installLocation string) string {
	return filepath.Join(installLocation, PendingFileName)
}

// SamePath compares two paths ignoring case and trailing separators,
// matching Windows filesystem semantics.
func SamePath(a, b string) bool {
	return strings.EqualFold(normalize(a), normalize(b))
}

// IsProtectedLocation reports whether loc is the install root or the
// packages root; destructive operations refuse both.
func IsProtectedLocation(p Paths, loc string) bool {
	return SamePath(loc, p.InstallRoot()) || SamePath(loc, p.PackagesRoot())
}

func normalize(path string) string {
	cleaned := filepath.Clean(path)
	return strings.TrimRight(cleaned, `/\`)
}
