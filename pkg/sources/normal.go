package sources

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/paths"
	"github.com/chocoforge/choco/pkg/types"
	"github.com/chocoforge/choco/pkg/xmlservice"
)

// NormalSourceType is the source kind of the stock package feed runner.
const NormalSourceType = "normal"

// normalRunner materializes packages from folder feeds: each source in
// Configuration.Sources is a directory whose immediate children are
// package payload directories named by package id, each carrying an
// <id>.nuspec manifest. This runner does not resolve dependencies; it
// installs exactly the named packages.
type normalRunner struct {
	fs      types.FS
	paths   paths.Paths
	infoSvc types.PackageInfoService
}

// NewNormalRunner creates the folder-feed runner.
func NewNormalRunner(fsys types.FS, p paths.Paths, infoSvc types.PackageInfoService) types.SourceRunner {
	return &normalRunner{fs: fsys, paths: p, infoSvc: infoSvc}
}

func (r *normalRunner) SourceType() string { return NormalSourceType }

func (r *normalRunner) EnsureSourceAppInstalled(*config.Configuration, types.PackageResultCallback) {
	// The normal feed needs no backing application.
}

func (r *normalRunner) Count(cfg *config.Configuration) int {
	return len(r.installedPackages())
}

func (r *normalRunner) ListNoop(cfg *config.Configuration) {
	log.Info().Msg("Would have listed installed packages")
}

// ListRun reports the installed packages, name and version each.
func (r *normalRunner) ListRun(cfg *config.Configuration) []*types.PackageResult {
	var results []*types.PackageResult
	for _, name := range r.installedPackages() {
		version := r.installedVersion(name)
		result := types.NewPackageResult(name, version)
		result.InstallLocation = r.paths.PackagePath(name)
		results = append(results, result)
	}
	return results
}

func (r *normalRunner) InstallNoop(cfg *config.Configuration, onResult types.PackageResultCallback) {
	for _, name := range splitNames(cfg.PackageNames) {
		result := types.NewPackageResult(name, "")
		result.RecordMessage(types.MessageNote, "Would have installed "+name)
		_ = onResult(result, cfg)
	}
}

func (r *normalRunner) InstallRun(cfg *config.Configuration, onResult types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	results := make(map[string]*types.PackageResult)
	for _, name := range splitNames(cfg.PackageNames) {
		result := r.installOne(name, cfg)
		results[strings.ToLower(name)] = result
		if err := onResult(result, cfg); err != nil {
			return results, err
		}
	}
	return results, nil
}

func (r *normalRunner) installOne(name string, cfg *config.Configuration) *types.PackageResult {
	installLocation := r.paths.PackagePath(name)

	if filesystem.DirExists(r.fs, installLocation) && !cfg.Force && !cfg.AllowMultipleVersions {
		result := types.NewPackageResult(name, r.installedVersion(name))
		result.InstallLocation = installLocation
		result.RecordWarning(name + " already installed. Use --force to reinstall.")
		result.Inconclusive = true
		return result
	}

	payload, version, err := r.locate(name, cfg)
	if err != nil {
		result := types.NewPackageResult(name, "")
		result.RecordError(err.Error())
		return result
	}

	if cfg.Version != "" && compareVersions(cfg.Version, version) != 0 {
		result := types.NewPackageResult(name, version)
		result.RecordError(name + " version " + cfg.Version + " not found in source(s) '" + cfg.Sources + "'")
		return result
	}

	result := types.NewPackageResult(name, version)
	result.Source = cfg.Sources
	result.InstallLocation = installLocation

	if filesystem.DirExists(r.fs, installLocation) && cfg.Force {
		if err := r.backup(name); err != nil {
			result.RecordWarning("Cannot back up existing package: " + err.Error())
		}
		if err := r.fs.RemoveAll(installLocation); err != nil {
			result.RecordError("Cannot remove existing package files: " + err.Error())
			return result
		}
	}

	if err := filesystem.CopyDirectory(r.fs, payload, installLocation); err != nil {
		result.RecordError("Cannot copy package files: " + err.Error())
		return result
	}

	return result
}

func (r *normalRunner) UpgradeNoop(cfg *config.Configuration, onResult types.PackageResultCallback) {
	for _, name := range splitNames(cfg.PackageNames) {
		result := types.NewPackageResult(name, r.installedVersion(name))
		result.RecordMessage(types.MessageNote, "Would have upgraded "+name)
		_ = onResult(result, cfg)
	}
}

func (r *normalRunner) UpgradeRun(cfg *config.Configuration, onResult types.PackageResultCallback, onBeforeModify types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	results := make(map[string]*types.PackageResult)
	names := splitNames(cfg.PackageNames)
	explicit := len(names) > 0 && names[0] != "all"
	if !explicit {
		names = r.installedPackages()
	}

	for _, name := range names {
		installLocation := r.paths.PackagePath(name)
		installedVersion := r.installedVersion(name)

		if !filesystem.DirExists(r.fs, installLocation) {
			result := types.NewPackageResult(name, "")
			result.RecordError(name + " is not installed. Cannot upgrade a non-existent package.")
			results[strings.ToLower(name)] = result
			if err := onResult(result, cfg); err != nil {
				return results, err
			}
			continue
		}

		if info := r.infoSvc.Get(types.PackageMetadata{ID: name, Version: installedVersion}); info != nil && info.IsPinned && !explicit {
			result := types.NewPackageResult(name, installedVersion)
			result.InstallLocation = installLocation
			result.RecordWarning(name + " is pinned. Skipping pinned package.")
			result.Inconclusive = true
			results[strings.ToLower(name)] = result
			continue
		}

		payload, version, err := r.locate(name, cfg)
		if err != nil {
			result := types.NewPackageResult(name, installedVersion)
			result.RecordError(err.Error())
			results[strings.ToLower(name)] = result
			if err := onResult(result, cfg); err != nil {
				return results, err
			}
			continue
		}

		if compareVersions(version, installedVersion) <= 0 && !cfg.Force && !cfg.AllowDowngrade {
			result := types.NewPackageResult(name, installedVersion)
			result.InstallLocation = installLocation
			result.Inconclusive = true
			result.RecordMessage(types.MessageInfo, name+" v"+installedVersion+" is the latest version available based on your source(s).")
			results[strings.ToLower(name)] = result
			continue
		}

		result := types.NewPackageResult(name, version)
		result.Source = cfg.Sources
		result.InstallLocation = installLocation

		if err := onBeforeModify(result, cfg); err != nil {
			results[strings.ToLower(name)] = result
			return results, err
		}

		if err := r.backup(name); err != nil {
			result.RecordWarning("Cannot back up existing package: " + err.Error())
		}
		if err := r.fs.RemoveAll(installLocation); err != nil {
			result.RecordError("Cannot remove existing package files: " + err.Error())
		} else if err := filesystem.CopyDirectory(r.fs, payload, installLocation); err != nil {
			result.RecordError("Cannot copy package files: " + err.Error())
		}

		results[strings.ToLower(name)] = result
		if err := onResult(result, cfg); err != nil {
			return results, err
		}
	}
	return results, nil
}

func (r *normalRunner) UninstallNoop(cfg *config.Configuration, onResult types.PackageResultCallback) {
	for _, name := range splitNames(cfg.PackageNames) {
		result := types.NewPackageResult(name, r.installedVersion(name))
		result.RecordMessage(types.MessageNote, "Would have uninstalled "+name)
		_ = onResult(result, cfg)
	}
}

func (r *normalRunner) UninstallRun(cfg *config.Configuration, onResult types.PackageResultCallback, onBeforeModify types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	results := make(map[string]*types.PackageResult)
	for _, name := range splitNames(cfg.PackageNames) {
		installLocation := r.paths.PackagePath(name)
		version := r.installedVersion(name)

		if !filesystem.DirExists(r.fs, installLocation) {
			result := types.NewPackageResult(name, "")
			result.RecordError(name + " is not installed. Cannot uninstall a non-existent package.")
			results[strings.ToLower(name)] = result
			if err := onResult(result, cfg); err != nil {
				return results, err
			}
			continue
		}

		result := types.NewPackageResult(name, version)
		result.InstallLocation = installLocation

		if err := onBeforeModify(result, cfg); err != nil {
			results[strings.ToLower(name)] = result
			return results, err
		}

		if err := r.backup(name); err != nil {
			result.RecordWarning("Cannot back up package before removal: " + err.Error())
		}

		results[strings.ToLower(name)] = result
		if err := onResult(result, cfg); err != nil {
			// The uninstall pipeline failed; halt removal so the package
			// files stay put for recovery.
			return results, err
		}

		if result.Success {
			if err := r.fs.RemoveAll(installLocation); err != nil {
				result.RecordError("Cannot remove package files: " + err.Error())
			}
		}
	}
	return results, nil
}

// GetOutdated compares installed package versions against the sources.
func (r *normalRunner) GetOutdated(cfg *config.Configuration) (map[string]*types.PackageResult, error) {
	results := make(map[string]*types.PackageResult)
	for _, name := range r.installedPackages() {
		installedVersion := r.installedVersion(name)
		_, available, err := r.locate(name, cfg)
		if err != nil {
			continue
		}
		if compareVersions(available, installedVersion) > 0 {
			result := types.NewPackageResult(name, available)
			result.InstallLocation = r.paths.PackagePath(name)
			result.RecordMessage(types.MessageInfo, name+" has a newer version: "+installedVersion+" -> "+available)
			results[strings.ToLower(name)] = result
		}
	}
	return results, nil
}

func (r *normalRunner) RemoveRollbackDirectoryIfExists(packageName string) {
	backup := filepath.Join(r.paths.PackageBackupRoot(), packageName)
	if !filesystem.DirExists(r.fs, backup) {
		return
	}
	if err := r.fs.RemoveAll(backup); err != nil {
		log.Warn().Err(err).Str("package", packageName).Msg("Cannot remove rollback directory")
	}
}

// locate finds the payload directory and version for name across the
// configured sources, first match wins.
func (r *normalRunner) locate(name string, cfg *config.Configuration) (payload, version string, err error) {
	for _, source := range splitNames(cfg.Sources) {
		candidate := filepath.Join(source, name)
		if !filesystem.DirExists(r.fs, candidate) {
			continue
		}
		return candidate, r.manifestVersion(candidate, name), nil
	}
	return "", "", errors.Newf(errors.ErrNotFound, "%s not found in source(s) '%s'", name, cfg.Sources)
}

// backup snapshots the installed package into the backup root, replacing
// any prior snapshot.
func (r *normalRunner) backup(name string) error {
	src := r.paths.PackagePath(name)
	dst := filepath.Join(r.paths.PackageBackupRoot(), name)
	if filesystem.DirExists(r.fs, dst) {
		if err := r.fs.RemoveAll(dst); err != nil {
			return err
		}
	}
	return filesystem.CopyDirectory(r.fs, src, dst)
}

func (r *normalRunner) installedPackages() []string {
	entries, err := r.fs.ReadDir(r.paths.PackagesRoot())
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

func (r *normalRunner) installedVersion(name string) string {
	return r.manifestVersion(r.paths.PackagePath(name), name)
}

func (r *normalRunner) manifestVersion(dir, name string) string {
	data, err := r.fs.ReadFile(filepath.Join(dir, name+".nuspec"))
	if err != nil {
		return "0.0.0"
	}
	meta, err := xmlservice.ReadNuspec(data)
	if err != nil || meta.Version == "" {
		return "0.0.0"
	}
	return meta.Version
}

// compareVersions compares dotted numeric versions, treating a missing
// segment as zero and non-numeric segments lexically. Prerelease tails
// after '-' sort before the release.
func compareVersions(a, b string) int {
	aBase, aPre, _ := strings.Cut(a, "-")
	bBase, bPre, _ := strings.Cut(b, "-")

	aParts := strings.Split(aBase, ".")
	bParts := strings.Split(bBase, ".")
	for i := 0; i < len(aParts) || i < len(bParts); i++ {
		av, bv := segment(aParts, i), segment(bParts, i)
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}

	switch {
	case aPre == bPre:
		return 0
	case aPre == "":
		return 1
	case bPre == "":
		return -1
	case aPre < bPre:
		return -1
	default:
		return 1
	}
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return n
}

func splitNames(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ";") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
