package sources

import (
	"strconv"
	"strings"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/types"
)

// Source kinds served by external catalog runners. The dispatcher's
// plural tolerance means "windowsfeature" also resolves here.
const (
	WindowsFeaturesSourceType = "windowsfeatures"
	CygwinSourceType          = "cygwin"
)

// externalRunner drives an operating-system feature provider or vendor
// catalog through its command-line application. Only install and
// uninstall are meaningful; everything else is a warning no-op.
type externalRunner struct {
	sourceType string
	appName    string
	executor   types.CommandExecutor
}

// NewWindowsFeaturesRunner creates the OS feature provider runner.
func NewWindowsFeaturesRunner(executor types.CommandExecutor) types.SourceRunner {
	return &externalRunner{sourceType: WindowsFeaturesSourceType, appName: "dism.exe", executor: executor}
}

// NewCygwinRunner creates the cygwin catalog runner.
func NewCygwinRunner(executor types.CommandExecutor) types.SourceRunner {
	return &externalRunner{sourceType: CygwinSourceType, appName: "cyg-get", executor: executor}
}

func (r *externalRunner) SourceType() string { return r.sourceType }

func (r *externalRunner) EnsureSourceAppInstalled(cfg *config.Configuration, onResult types.PackageResultCallback) {
	if !cfg.Information.IsWindows() {
		log.Warn().Str("sourceType", r.sourceType).Msg("Source requires Windows; skipping source application check")
	}
}

func (r *externalRunner) Count(*config.Configuration) int { return 0 }

func (r *externalRunner) ListNoop(*config.Configuration) {}

func (r *externalRunner) ListRun(cfg *config.Configuration) []*types.PackageResult {
	log.Warn().Str("sourceType", r.sourceType).Msg("List is not supported for this source")
	return nil
}

func (r *externalRunner) InstallNoop(cfg *config.Configuration, onResult types.PackageResultCallback) {
	for _, name := range splitNames(cfg.PackageNames) {
		result := types.NewPackageResult(name, "")
		result.RecordMessage(types.MessageNote, "Would have run "+r.appName+" to install "+name)
		_ = onResult(result, cfg)
	}
}

func (r *externalRunner) InstallRun(cfg *config.Configuration, onResult types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	return r.run(cfg, "install", onResult)
}

func (r *externalRunner) UpgradeNoop(cfg *config.Configuration, onResult types.PackageResultCallback) {
	r.InstallNoop(cfg, onResult)
}

func (r *externalRunner) UpgradeRun(cfg *config.Configuration, onResult types.PackageResultCallback, _ types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	return r.run(cfg, "upgrade", onResult)
}

func (r *externalRunner) UninstallNoop(cfg *config.Configuration, onResult types.PackageResultCallback) {
	for _, name := range splitNames(cfg.PackageNames) {
		result := types.NewPackageResult(name, "")
		result.RecordMessage(types.MessageNote, "Would have run "+r.appName+" to uninstall "+name)
		_ = onResult(result, cfg)
	}
}

func (r *externalRunner) UninstallRun(cfg *config.Configuration, onResult types.PackageResultCallback, _ types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	return r.run(cfg, "uninstall", onResult)
}

func (r *externalRunner) GetOutdated(*config.Configuration) (map[string]*types.PackageResult, error) {
	log.Warn().Str("sourceType", r.sourceType).Msg("Outdated is not supported for this source")
	return map[string]*types.PackageResult{}, nil
}

func (r *externalRunner) RemoveRollbackDirectoryIfExists(string) {}

func (r *externalRunner) run(cfg *config.Configuration, operation string, onResult types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	results := make(map[string]*types.PackageResult)
	for _, name := range splitNames(cfg.PackageNames) {
		result := types.NewPackageResult(name, "")
		result.Source = r.sourceType
		if !cfg.Information.IsWindows() {
			result.RecordError(r.sourceType + " source is only available on Windows")
		} else {
			exitCode, err := r.executor.Execute(r.appName, operation, name)
			result.ExitCode = exitCode
			if err != nil {
				result.RecordError("Error running " + r.appName + ": " + err.Error())
			} else if exitCode != 0 {
				result.RecordError(r.appName + " exited " + strconv.Itoa(exitCode))
			}
		}
		results[strings.ToLower(name)] = result
		if err := onResult(result, cfg); err != nil {
			return results, err
		}
	}
	return results, nil
}
