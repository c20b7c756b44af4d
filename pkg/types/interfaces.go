package types

import (
	"io"
	"io/fs"

	"github.com/chocoforge/choco/pkg/config"
)

// FS is the filesystem interface required for package operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// OpenExclusive opens name for writing with sharing disallowed; the
	// returned closer releases the lock. Used for the pending marker.
	OpenExclusive(name string) (io.Closer, error)
}

// RegistryService reads the installed-program registry and environment
// variable stores. Non-Windows implementations return empty snapshots.
type RegistryService interface {
	GetInstallerKeys() (RegistrySnapshot, error)
	GetEnvironmentValues() (EnvironmentSnapshot, error)
}

// ScriptingHost runs package-supplied automation scripts. The bool return
// reports whether a script actually ran.
type ScriptingHost interface {
	Install(cfg *config.Configuration, result *PackageResult) bool
	Uninstall(cfg *config.Configuration, result *PackageResult) bool
	BeforeModify(cfg *config.Configuration, result *PackageResult) bool
	InstallNoop(cfg *config.Configuration, result *PackageResult)
	UninstallNoop(cfg *config.Configuration, result *PackageResult)
}

// ShimService generates and removes executable shims for a package.
type ShimService interface {
	Install(cfg *config.Configuration, result *PackageResult)
	Uninstall(cfg *config.Configuration, result *PackageResult)
}

// FilesService normalizes file attributes and captures file snapshots
// under an install location.
type FilesService interface {
	NormalizeAttributes(result *PackageResult, cfg *config.Configuration)
	Capture(result *PackageResult, cfg *config.Configuration) *FilesSnapshot
}

// ConfigTransformService applies package-local configuration transforms
// after materialization.
type ConfigTransformService interface {
	Run(result *PackageResult, cfg *config.Configuration)
}

// PackageInfoService persists the durable per-package record.
type PackageInfoService interface {
	Get(metadata PackageMetadata) *PackageInformation
	Save(info *PackageInformation)
	Remove(metadata PackageMetadata)
}

// AutoUninstallerService drives the recorded native uninstaller during
// package removal.
type AutoUninstallerService interface {
	Run(result *PackageResult, cfg *config.Configuration)
}

// ArgumentCodec encrypts and decrypts the argument-replay blob stored in
// PackageInformation. Key management belongs to the implementation.
type ArgumentCodec interface {
	Encrypt(plain string) string
	Decrypt(blob string) (string, error)
}

// Prompter asks the user to pick one of choices; implementations return
// defaultChoice when interaction is impossible.
type Prompter interface {
	PromptForConfirmation(prompt string, choices []string, defaultChoice string, requireAnswer bool) string
}

// ProcessState is the explicit handle on process-wide mutable state:
// environment variables (inherited by child processes) and the process
// exit code.
type ProcessState interface {
	GetEnv(name string) string
	SetEnv(name, value string)
	ExitCode() int
	SetExitCode(code int)
}

// CommandExecutor runs external commands such as `shutdown /a`. Exit code
// and error are returned; callers decide whether either matters.
type CommandExecutor interface {
	Execute(command string, args ...string) (int, error)
}

// Packager builds and publishes package archives; archive handling lives
// outside the orchestrator core.
type Packager interface {
	Pack(cfg *config.Configuration) error
	Push(cfg *config.Configuration) error
}
