package coordinator

import (
	"path/filepath"
	"strings"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/events"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/paths"
	"github.com/chocoforge/choco/pkg/types"
)

// handleUninstallResult is the per-package pipeline for uninstall,
// invoked from inside the source runner before the runner removes the
// package files. A failed uninstall always returns an error so the
// runner halts its removal.
func (c *Coordinator) handleUninstallResult(result *types.PackageResult, cfg *config.Configuration) error {
	c.deps.ResetEnvironment(cfg)

	// Older versions installed side-by-side packages under
	// <name>.<version>; recover the real location before touching it.
	if result.InstallLocation != "" && !filesystem.DirExists(c.deps.FS, result.InstallLocation) &&
		result.Metadata.Version != "" {
		versioned := result.InstallLocation + "." + result.Metadata.Version
		if filesystem.DirExists(c.deps.FS, versioned) {
			result.InstallLocation = versioned
		}
	}

	isWindows := cfg.Information.IsWindows()

	if isWindows {
		c.deps.Shims.Uninstall(cfg, result)
	}
	scriptsRan := false
	if !cfg.SkipPackageInstallProvider {
		scriptsRan = c.deps.Scripting.Uninstall(cfg, result)
	}
	if result.Success && isWindows {
		c.deps.AutoUninstaller.Run(result, cfg)
	}
	if scriptsRan && isWindows {
		_, _ = c.deps.Executor.Execute("shutdown", "/a")
	}

	if result.Success {
		c.uninstallCleanup(result, cfg)
	} else {
		c.failures.Handle(result, cfg, false, false)
	}

	c.deps.Events.Publish(events.HandlePackageResultCompleted{
		Result:      result,
		Config:      cfg,
		CommandName: cfg.CommandName,
	})

	if errors.IsRebootExitCode(result.ExitCode) && cfg.Features.ExitOnRebootDetected {
		c.deps.Process.SetExitCode(errors.ExitInstallSuspend)
		return errors.Newf(errors.ErrRebootRequired,
			"Reboot required. %s exited %d; exiting per configuration.", result.Name, result.ExitCode)
	}

	if !result.Success {
		// The source runner must not remove package files after a failed
		// uninstall; the error is how it finds out.
		return errors.Newf(errors.ErrUninstallFail,
			"%s uninstall was not successful, cannot continue package removal.", result.Name)
	}
	return nil
}

// uninstallCleanup finishes a successful uninstall: the durable record,
// the quarantine and rollback leftovers, any staged sideload payload,
// and with force the package directory itself.
func (c *Coordinator) uninstallCleanup(result *types.PackageResult, cfg *config.Configuration) {
	if cfg.Features.RemovePackageInformationOnUninstall {
		c.deps.PackageInfo.Remove(result.Metadata)
	} else {
		info := c.deps.PackageInfo.Get(result.Metadata)
		info.RegistrySnapshot = nil
		info.FilesSnapshot = nil
		c.deps.PackageInfo.Save(info)
	}

	badPath := filepath.Join(c.deps.Paths.PackageFailuresRoot(), result.Name)
	if filesystem.DirExists(c.deps.FS, badPath) {
		if err := c.deps.FS.RemoveAll(badPath); err != nil {
			c.log.Warn().Err(err).Str("path", badPath).Msg("Cannot clean failures directory")
		}
	}

	backupPath := filepath.Join(c.deps.Paths.PackageBackupRoot(), result.Name)
	if filesystem.DirExists(c.deps.FS, backupPath) {
		if err := c.deps.FS.RemoveAll(backupPath); err != nil {
			c.log.Warn().Err(err).Str("path", backupPath).Msg("Cannot remove rollback directory")
		}
	}

	c.sideloads().Unlink(result, cfg)

	libPrefix := strings.ToLower(c.deps.Paths.PackagesRoot()) + string(filepath.Separator)
	if cfg.Force && result.InstallLocation != "" &&
		!paths.IsProtectedLocation(c.deps.Paths, result.InstallLocation) &&
		strings.HasPrefix(strings.ToLower(result.InstallLocation), libPrefix) {
		if err := c.deps.FS.RemoveAll(result.InstallLocation); err != nil {
			c.log.Warn().Err(err).Str("path", result.InstallLocation).Msg("Cannot force-remove package directory")
		}
	}
}
