package coordinator

import (
	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/types"
)

// Install runs the install command for the given configuration and
// returns the aggregated per-package results. The reporter always runs,
// fatal errors included, and the process exit code is bumped to 1 when a
// package failed and it is still 0.
func (c *Coordinator) Install(cfg *config.Configuration) (map[string]*types.PackageResult, error) {
	cfg.CommandName = "install"
	c.deps.Notifier.Notify(cfg, "")

	results := NewResultSet()
	err := c.runGuarded(cfg, results, func() error {
		if err := c.validator.Validate(cfg.PackageNames); err != nil {
			return err
		}
		if cfg.Sources == "" {
			return errors.New(errors.ErrNoSources, "Installation was NOT successful. There are no sources enabled for packages, and none were passed as arguments.")
		}

		return c.expander.Expand(cfg, results.Record, func(perPackage *config.Configuration) error {
			if perPackage.PackageNames == "" {
				return nil
			}
			runner := c.deps.Dispatcher.Resolve(perPackage.SourceType)
			runner.EnsureSourceAppInstalled(perPackage, c.noteResult(results))

			if perPackage.Noop {
				runner.InstallNoop(perPackage, c.noteResult(results))
				return nil
			}

			runnerResults, err := runner.InstallRun(perPackage, c.handlePackageResult)
			mergeResults(results, runnerResults)
			return err
		})
	})
	return results.Snapshot(), err
}

// Upgrade runs the upgrade command. List-documents are rejected by the
// expander before any package work starts.
func (c *Coordinator) Upgrade(cfg *config.Configuration) (map[string]*types.PackageResult, error) {
	cfg.CommandName = "upgrade"
	c.deps.Notifier.Notify(cfg, "")

	results := NewResultSet()
	err := c.runGuarded(cfg, results, func() error {
		if err := c.validator.Validate(cfg.PackageNames); err != nil {
			return err
		}
		if cfg.Sources == "" {
			return errors.New(errors.ErrNoSources, "Upgrade was NOT successful. There are no sources enabled for packages, and none were passed as arguments.")
		}

		return c.expander.Expand(cfg, results.Record, func(perPackage *config.Configuration) error {
			if perPackage.PackageNames == "" {
				return nil
			}
			runner := c.deps.Dispatcher.Resolve(perPackage.SourceType)
			runner.EnsureSourceAppInstalled(perPackage, c.noteResult(results))

			if perPackage.Noop {
				runner.UpgradeNoop(perPackage, c.noteResult(results))
				return nil
			}

			runnerResults, err := runner.UpgradeRun(perPackage, c.handlePackageResult, c.handleBeforeModify)
			mergeResults(results, runnerResults)
			return err
		})
	})
	return results.Snapshot(), err
}

// Uninstall runs the uninstall command.
func (c *Coordinator) Uninstall(cfg *config.Configuration) (map[string]*types.PackageResult, error) {
	cfg.CommandName = "uninstall"
	c.deps.Notifier.Notify(cfg, "")

	results := NewResultSet()
	err := c.runGuarded(cfg, results, func() error {
		if err := c.validator.Validate(cfg.PackageNames); err != nil {
			return err
		}

		return c.expander.Expand(cfg, results.Record, func(perPackage *config.Configuration) error {
			if perPackage.PackageNames == "" {
				return nil
			}
			runner := c.deps.Dispatcher.Resolve(perPackage.SourceType)

			if perPackage.Noop {
				runner.UninstallNoop(perPackage, c.noteResult(results))
				return nil
			}

			runnerResults, err := runner.UninstallRun(perPackage, c.handleUninstallResult, c.handleBeforeModify)
			mergeResults(results, runnerResults)
			return err
		})
	})
	return results.Snapshot(), err
}

// List enumerates packages from the resolved source.
func (c *Coordinator) List(cfg *config.Configuration) []*types.PackageResult {
	cfg.CommandName = "list"
	runner := c.deps.Dispatcher.Resolve(cfg.SourceType)
	if cfg.Noop {
		runner.ListNoop(cfg)
		return nil
	}
	return runner.ListRun(cfg)
}

// Count returns the number of packages the resolved source reports.
func (c *Coordinator) Count(cfg *config.Configuration) int {
	return c.deps.Dispatcher.Resolve(cfg.SourceType).Count(cfg)
}

// Outdated reports installed packages with newer versions available.
// With enhanced exit codes enabled, finding any sets exit code 2.
func (c *Coordinator) Outdated(cfg *config.Configuration) (map[string]*types.PackageResult, error) {
	cfg.CommandName = "outdated"
	c.deps.Notifier.Notify(cfg, "")

	runner := c.deps.Dispatcher.Resolve(cfg.SourceType)
	outdated, err := runner.GetOutdated(cfg)
	if err != nil {
		c.deps.Process.SetExitCode(errors.ExitFailure)
		return outdated, err
	}

	if len(outdated) > 0 && cfg.Features.UseEnhancedExitCodes && c.deps.Process.ExitCode() == 0 {
		c.deps.Process.SetExitCode(errors.ExitOutdatedFound)
	}
	return outdated, nil
}

// Pack builds a package archive via the packaging collaborator.
func (c *Coordinator) Pack(cfg *config.Configuration) error {
	cfg.CommandName = "pack"
	if err := c.deps.Packager.Pack(cfg); err != nil {
		c.deps.Process.SetExitCode(errors.ExitFailure)
		return err
	}
	return nil
}

// Push publishes a package archive via the packaging collaborator.
func (c *Coordinator) Push(cfg *config.Configuration) error {
	cfg.CommandName = "push"
	if err := c.deps.Packager.Push(cfg); err != nil {
		c.deps.Process.SetExitCode(errors.ExitFailure)
		return err
	}
	return nil
}

// runGuarded wraps a command body so the reporter runs and the exit code
// is set on every path, fatal errors included.
func (c *Coordinator) runGuarded(cfg *config.Configuration, results *ResultSet, body func() error) (err error) {
	defer func() {
		failures := c.deps.Reporter.Report(cfg, results.Snapshot())
		if (failures > 0 || err != nil) && c.deps.Process.ExitCode() == 0 {
			c.deps.Process.SetExitCode(errors.ExitFailure)
		}
	}()
	return body()
}

// handleBeforeModify lets the installed version's scripts run before the
// package is upgraded or removed.
func (c *Coordinator) handleBeforeModify(result *types.PackageResult, cfg *config.Configuration) error {
	if !cfg.SkipPackageInstallProvider {
		c.deps.Scripting.BeforeModify(cfg, result)
	}
	return nil
}

// noteResult records results produced outside the post-pipeline, such as
// noop previews and source-application installs.
func (c *Coordinator) noteResult(results *ResultSet) types.PackageResultCallback {
	return func(result *types.PackageResult, cfg *config.Configuration) error {
		results.Record(result.LowerName(), result)
		return nil
	}
}

func mergeResults(results *ResultSet, runnerResults map[string]*types.PackageResult) {
	for key, result := range runnerResults {
		results.Record(key, result)
	}
}
