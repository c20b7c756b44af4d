// Package sideload stages extension, template and hook packages into
// their well-known directories next to the packages root. A sideload
// package's payload serves the host process itself, so removal of a
// previous staging has to tolerate files the host still has loaded.
package sideload

import (
	"path/filepath"
	"strings"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/paths"
	"github.com/chocoforge/choco/pkg/types"
)

var log = logging.GetLogger("sideload")

// Reserved package-name suffixes.
const (
	ExtensionSuffix  = ".extension"
	ExtensionsSuffix = ".extensions"
	TemplateSuffix   = ".template"
	HookSuffix       = ".hook"
)

// Installer stages sideload payloads.
type Installer struct {
	fs    types.FS
	paths paths.Paths
	proc  types.ProcessState
}

// New creates a sideload Installer.
func New(fsys types.FS, p paths.Paths, proc types.ProcessState) *Installer {
	return &Installer{fs: fsys, paths: p, proc: proc}
}

// IsSideload reports whether the package name carries a reserved suffix.
func IsSideload(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ExtensionSuffix) ||
		strings.HasSuffix(lower, ExtensionsSuffix) ||
		strings.HasSuffix(lower, TemplateSuffix) ||
		strings.HasSuffix(lower, HookSuffix)
}

// Handle runs the sideload step for one package result. For uninstall the
// staged payload is removed; for every other command the payload is
// re-staged from the package's install location. Errors are per-file
// tolerant: they log and continue, never failing the package.
func (i *Installer) Handle(result *types.PackageResult, cfg *config.Configuration) {
	lower := strings.ToLower(result.Name)
	switch {
	case strings.HasSuffix(lower, ExtensionsSuffix):
		i.handleExtensions(result, cfg, strings.TrimSuffix(lower, ExtensionsSuffix))
	case strings.HasSuffix(lower, ExtensionSuffix):
		i.handleExtensions(result, cfg, strings.TrimSuffix(lower, ExtensionSuffix))
	case strings.HasSuffix(lower, TemplateSuffix):
		i.handleTemplate(result, cfg, strings.TrimSuffix(lower, TemplateSuffix))
	case strings.HasSuffix(lower, HookSuffix):
		i.handleHook(result, cfg, strings.TrimSuffix(lower, HookSuffix))
	}
}

func (i *Installer) handleExtensions(result *types.PackageResult, cfg *config.Configuration, slug string) {
	dstRoot := filepath.Join(i.paths.ExtensionsRoot(), slug)
	// Both suffix variants map to the same slug; clear every spelling a
	// prior version may have staged under.
	targets := []string{dstRoot, dstRoot + ExtensionSuffix, dstRoot + ExtensionsSuffix}

	if cfg.CommandName == "uninstall" {
		for _, target := range targets {
			i.removeExtensionDir(target)
		}
		result.RecordMessage(types.MessageNote, " Uninstalled/Removed "+slug+" extensions.")
		return
	}

	for _, target := range targets {
		i.removeExtensionDir(target)
	}
	src := i.payloadSource(result.InstallLocation, "extensions")
	if err := filesystem.CopyDirectory(i.fs, src, dstRoot); err != nil {
		log.Warn().Err(err).Str("package", result.Name).Msg("Cannot stage extension payload")
		result.RecordWarning("Unable to stage extension files: " + err.Error())
		return
	}
	result.RecordMessage(types.MessageNote, " Installed/updated "+slug+" extensions.")
	i.proc.SetEnv(paths.EnvPackageInstallLocation, dstRoot)
}

func (i *Installer) handleTemplate(result *types.PackageResult, cfg *config.Configuration, slug string) {
	dstRoot := filepath.Join(i.paths.TemplatesRoot(), slug)

	if cfg.CommandName == "uninstall" {
		i.removeAll(dstRoot)
		result.RecordMessage(types.MessageNote, " Uninstalled/Removed "+slug+" template.")
		return
	}

	i.removeAll(dstRoot)
	src := i.payloadSource(result.InstallLocation, "templates")
	if err := filesystem.CopyDirectory(i.fs, src, dstRoot); err != nil {
		log.Warn().Err(err).Str("package", result.Name).Msg("Cannot stage template payload")
		result.RecordWarning("Unable to stage template files: " + err.Error())
		return
	}
	i.renameNuspecTemplates(dstRoot)
	result.RecordMessage(types.MessageNote, " Installed/updated "+slug+" template.")
	i.proc.SetEnv(paths.EnvPackageInstallLocation, dstRoot)
}

func (i *Installer) handleHook(result *types.PackageResult, cfg *config.Configuration, slug string) {
	dstRoot := filepath.Join(i.paths.HooksRoot(), slug)

	if cfg.CommandName == "uninstall" {
		i.removeAll(dstRoot)
		result.RecordMessage(types.MessageNote, " Uninstalled/Removed "+slug+" hooks.")
		return
	}

	i.removeAll(dstRoot)
	src := i.payloadSource(result.InstallLocation, "hook")
	if err := filesystem.CopyDirectory(i.fs, src, dstRoot); err != nil {
		log.Warn().Err(err).Str("package", result.Name).Msg("Cannot stage hook payload")
		result.RecordWarning("Unable to stage hook files: " + err.Error())
		return
	}
	result.RecordMessage(types.MessageNote, " Installed/updated "+slug+" hooks.")
	i.proc.SetEnv(paths.EnvPackageInstallLocation, dstRoot)
}

// payloadSource prefers the conventional subdirectory under the install
// location and falls back to the install location itself.
func (i *Installer) payloadSource(installLocation, subdir string) string {
	candidate := filepath.Join(installLocation, subdir)
	if filesystem.DirExists(i.fs, candidate) {
		return candidate
	}
	return installLocation
}

// removeExtensionDir clears a staged extension directory while the host
// process may hold its assemblies open: old renamed copies are deleted,
// live assemblies are renamed aside, and everything else is removed.
// Every step tolerates per-file failures.
func (i *Installer) removeExtensionDir(dir string) {
	if !filesystem.DirExists(i.fs, dir) {
		return
	}

	for _, file := range filesystem.WalkFiles(i.fs, dir) {
		if strings.HasSuffix(strings.ToLower(file), ".dll.old") {
			if err := i.fs.Remove(file); err != nil {
				log.Warn().Err(err).Str("file", file).Msg("Cannot delete old assembly copy")
			}
		}
	}

	for _, file := range filesystem.WalkFiles(i.fs, dir) {
		if strings.HasSuffix(strings.ToLower(file), ".dll") {
			if err := i.fs.Rename(file, file+".old"); err != nil {
				log.Warn().Err(err).Str("file", file).Msg("Cannot rename assembly aside")
			}
		}
	}

	for _, file := range filesystem.WalkFiles(i.fs, dir) {
		if strings.HasSuffix(strings.ToLower(file), ".dll.old") {
			continue
		}
		if err := i.fs.Remove(file); err != nil {
			log.Warn().Err(err).Str("file", file).Msg("Cannot delete staged file")
		}
	}
}

func (i *Installer) removeAll(dir string) {
	if !filesystem.DirExists(i.fs, dir) {
		return
	}
	if err := i.fs.RemoveAll(dir); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("Cannot remove staged payload")
	}
}

// renameNuspecTemplates renames *.nuspec.template files to *.nuspec
// inside the staged copy.
func (i *Installer) renameNuspecTemplates(dir string) {
	for _, file := range filesystem.WalkFiles(i.fs, dir) {
		if strings.HasSuffix(strings.ToLower(file), ".nuspec.template") {
			target := strings.TrimSuffix(file, ".template")
			if err := i.fs.Rename(file, target); err != nil {
				log.Warn().Err(err).Str("file", file).Msg("Cannot rename template manifest")
			}
		}
	}
}

// Unlink removes the staged payload for a sideload package during
// uninstall cleanup; a no-op for regular packages.
func (i *Installer) Unlink(result *types.PackageResult, cfg *config.Configuration) {
	if !IsSideload(result.Name) {
		return
	}
	uninstallCfg := cfg.Clone()
	uninstallCfg.CommandName = "uninstall"
	i.Handle(result, uninstallCfg)
}
