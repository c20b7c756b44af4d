package sources

import (
	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/types"
)

// noopRunner stands in for unknown source kinds. Every operation returns
// the zero value for its type.
type noopRunner struct {
	sourceType string
}

func (n noopRunner) SourceType() string { return n.sourceType }

func (n noopRunner) EnsureSourceAppInstalled(*config.Configuration, types.PackageResultCallback) {}

func (n noopRunner) Count(*config.Configuration) int { return 0 }

func (n noopRunner) ListNoop(*config.Configuration) {}

func (n noopRunner) ListRun(*config.Configuration) []*types.PackageResult { return nil }

func (n noopRunner) InstallNoop(*config.Configuration, types.PackageResultCallback) {}

func (n noopRunner) InstallRun(*config.Configuration, types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	return map[string]*types.PackageResult{}, nil
}

func (n noopRunner) UpgradeNoop(*config.Configuration, types.PackageResultCallback) {}

func (n noopRunner) UpgradeRun(*config.Configuration, types.PackageResultCallback, types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	return map[string]*types.PackageResult{}, nil
}

func (n noopRunner) UninstallNoop(*config.Configuration, types.PackageResultCallback) {}

func (n noopRunner) UninstallRun(*config.Configuration, types.PackageResultCallback, types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	return map[string]*types.PackageResult{}, nil
}

func (n noopRunner) GetOutdated(*config.Configuration) (map[string]*types.PackageResult, error) {
	return map[string]*types.PackageResult{}, nil
}

func (n noopRunner) RemoveRollbackDirectoryIfExists(string) {}
