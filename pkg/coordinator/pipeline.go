package coordinator

import (
	"path/filepath"
	"strings"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/events"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/paths"
	"github.com/chocoforge/choco/pkg/sideload"
	"github.com/chocoforge/choco/pkg/snapshot"
	"github.com/chocoforge/choco/pkg/types"
)

// handlePackageResult is the post-materialization pipeline for install
// and upgrade, invoked from inside the source runner for each package
// result. Step order is load-bearing; see the tests that pin it.
func (c *Coordinator) handlePackageResult(result *types.PackageResult, cfg *config.Configuration) error {
	c.deps.ResetEnvironment(cfg)

	if err := c.pending.Set(result, cfg); err != nil {
		return err
	}
	pendingCleared := false
	defer func() {
		if !pendingCleared {
			c.pending.Remove(result, cfg)
		}
	}()

	if result.Success {
		c.log.Info().Str("package", result.Identity()).Int("exitCode", result.ExitCode).
			Msgf("The %s of %s was successful.", cfg.CommandName, result.Name)
	} else {
		c.log.Error().Str("package", result.Identity()).Int("exitCode", result.ExitCode).
			Msgf("The %s of %s was NOT successful.", cfg.CommandName, result.Name)
	}

	info := c.deps.PackageInfo.Get(result.Metadata)
	if cfg.AllowMultipleVersions {
		info.IsSideBySide = true
	}

	isWindows := cfg.Information.IsWindows()

	if result.Success && isWindows && !cfg.SkipPackageInstallProvider {
		installersBefore := c.snapshots.SnapshotInstallers()
		envBefore := c.snapshots.SnapshotEnv()

		if ran := c.deps.Scripting.Install(cfg, result); ran {
			// Cancel any reboot a script may have scheduled; the exit
			// code is irrelevant when no reboot was pending.
			_, _ = c.deps.Executor.Execute("shutdown", "/a")
		}

		diff := snapshot.DiffInstallers(installersBefore, c.snapshots.SnapshotInstallers())
		if !diff.Empty() {
			info.RegistrySnapshot = &diff
			if diff.Keys[0].HasQuietUninstall {
				info.HasSilentUninstall = true
			}
		}

		changed, removed := snapshot.DiffEnv(envBefore, c.snapshots.SnapshotEnv())
		snapshot.LogEnvChanges(cfg, changed, removed)
	}

	if isWindows {
		c.deps.Files.NormalizeAttributes(result, cfg)
		c.deps.ConfigTransform.Run(result, cfg)
		info.FilesSnapshot = c.deps.Files.Capture(result, cfg)
	} else if result.Success {
		c.deps.ConfigTransform.Run(result, cfg)
		info.FilesSnapshot = c.deps.Files.Capture(result, cfg)
	}

	if isWindows {
		c.writeArchIgnoreFiles(result, cfg)
		c.deps.Shims.Install(cfg, result)
	}

	if result.Success {
		c.sideloads().Handle(result, cfg)
		info.Arguments = c.deps.ArgumentCodec.Encrypt(replayArguments(cfg))
		info.IsPinned = cfg.PinPackage
	}

	c.publishInstallLocation(result, info)

	c.deps.PackageInfo.Save(info)
	c.ensureBadPackagePathClean(result)
	c.deps.Events.Publish(events.HandlePackageResultCompleted{
		Result:      result,
		Config:      cfg,
		CommandName: cfg.CommandName,
	})
	c.pending.Remove(result, cfg)
	pendingCleared = true

	if errors.IsRebootExitCode(result.ExitCode) && cfg.Features.ExitOnRebootDetected {
		c.deps.Process.SetExitCode(errors.ExitInstallSuspend)
		return errors.Newf(errors.ErrRebootRequired,
			"Reboot required. %s exited %d; exiting per configuration.", result.Name, result.ExitCode)
	}

	if !result.Success {
		c.failures.Handle(result, cfg, true, true)
		if cfg.Features.StopOnFirstPackageFailure {
			return errors.Newf(errors.ErrStopOnFailure,
				"Stopping further execution as %s has failed %s.", result.Name, cfg.CommandName)
		}
		return nil
	}

	c.deps.Dispatcher.Resolve(cfg.SourceType).RemoveRollbackDirectoryIfExists(result.Name)
	c.log.Info().Str("package", result.Name).Str("location", result.InstallLocation).
		Msg("Software installed to")
	return nil
}

// publishInstallLocation sets the package install location environment
// variable: the tools directory for the package when it exists and the
// variable is still unset, then whatever the scripting host or sideload
// staging published, then the package install location; a freshly
// detected installer key's own location wins over all of them.
func (c *Coordinator) publishInstallLocation(result *types.PackageResult, info *types.PackageInformation) {
	current := c.deps.Process.GetEnv(paths.EnvPackageInstallLocation)
	toolsRoot := c.deps.Process.GetEnv(paths.EnvToolsLocation)

	if toolsRoot != "" && current == "" {
		toolsDir := filepath.Join(toolsRoot, result.Name)
		if filesystem.DirExists(c.deps.FS, toolsDir) {
			c.deps.Process.SetEnv(paths.EnvPackageInstallLocation, toolsDir)
			current = toolsDir
		}
	}
	if current == "" && result.InstallLocation != "" {
		c.deps.Process.SetEnv(paths.EnvPackageInstallLocation, result.InstallLocation)
	}

	if info.RegistrySnapshot != nil && len(info.RegistrySnapshot.Keys) > 0 {
		if loc := info.RegistrySnapshot.Keys[0].InstallLocation; loc != "" {
			c.deps.Process.SetEnv(paths.EnvPackageInstallLocation, loc)
		}
	}
}

// ensureBadPackagePathClean drops any stale quarantine directory for the
// package so a later failure move cannot collide with it.
func (c *Coordinator) ensureBadPackagePathClean(result *types.PackageResult) {
	if !result.Success || result.InstallLocation == "" {
		return
	}
	rel, err := filepath.Rel(c.deps.Paths.PackagesRoot(), result.InstallLocation)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	badPath := filepath.Join(c.deps.Paths.PackageFailuresRoot(), rel)
	if !filesystem.DirExists(c.deps.FS, badPath) {
		return
	}
	if err := c.deps.FS.RemoveAll(badPath); err != nil {
		c.log.Warn().Err(err).Str("path", badPath).Msg("Cannot clean up failures directory")
	}
}

// replayArguments is the plain-text form of the arguments recorded for
// later replay on upgrade.
func replayArguments(cfg *config.Configuration) string {
	var parts []string
	if cfg.InstallArguments != "" {
		parts = append(parts, "--install-arguments="+cfg.InstallArguments)
	}
	if cfg.PackageParameters != "" {
		parts = append(parts, "--package-parameters="+cfg.PackageParameters)
	}
	if cfg.OverrideArguments {
		parts = append(parts, "--override-arguments")
	}
	return strings.Join(parts, " ")
}

func (c *Coordinator) sideloads() *sideload.Installer {
	return sideload.New(c.deps.FS, c.deps.Paths, c.deps.Process)
}
