package types

import "github.com/chocoforge/choco/pkg/config"

// PackageResultCallback receives one package result as a source runner
// produces it; the configuration is the per-package copy in effect. A
// non-nil error is fatal: the runner must stop its own work (including
// any pending package removal) and propagate it.
type PackageResultCallback func(result *PackageResult, cfg *config.Configuration) error

// SourceRunner materializes packages from one kind of source. The
// orchestrator selects a runner by SourceType and invokes the operation;
// dependency resolution happens inside the runner.
type SourceRunner interface {
	// SourceType is the kind tag this runner serves, e.g. "normal".
	SourceType() string

	// EnsureSourceAppInstalled installs the backing application for
	// alternative sources, if any.
	EnsureSourceAppInstalled(cfg *config.Configuration, onResult PackageResultCallback)

	Count(cfg *config.Configuration) int

	ListNoop(cfg *config.Configuration)
	ListRun(cfg *config.Configuration) []*PackageResult

	InstallNoop(cfg *config.Configuration, onResult PackageResultCallback)
	InstallRun(cfg *config.Configuration, onResult PackageResultCallback) (map[string]*PackageResult, error)

	UpgradeNoop(cfg *config.Configuration, onResult PackageResultCallback)
	UpgradeRun(cfg *config.Configuration, onResult PackageResultCallback, onBeforeModify PackageResultCallback) (map[string]*PackageResult, error)

	UninstallNoop(cfg *config.Configuration, onResult PackageResultCallback)
	UninstallRun(cfg *config.Configuration, onResult PackageResultCallback, onBeforeModify PackageResultCallback) (map[string]*PackageResult, error)

	GetOutdated(cfg *config.Configuration) (map[string]*PackageResult, error)

	// RemoveRollbackDirectoryIfExists clears the package-backup snapshot
	// for the named package after a successful operation.
	RemoveRollbackDirectoryIfExists(packageName string)
}
