// Package failure quarantines failed installs and restores rollback
// snapshots. The package directory moves from the packages root to the
// failures root so the packages root never shows a broken install, and
// the most recent backup is moved back in when the user agrees.
package failure

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/paths"
	"github.com/chocoforge/choco/pkg/types"
)

var log = logging.GetLogger("failure")

// Handler handles per-package operation failures.
type Handler struct {
	fs       types.FS
	paths    paths.Paths
	prompter types.Prompter
}

// New creates a failure Handler.
func New(fsys types.FS, p paths.Paths, prompter types.Prompter) *Handler {
	return &Handler{fs: fsys, paths: p, prompter: prompter}
}

// Handle processes one failed package result: guarantees a non-zero exit
// code, logs the recorded errors, and optionally quarantines the package
// directory and restores the rollback snapshot.
func (h *Handler) Handle(result *types.PackageResult, cfg *config.Configuration, move, rollback bool) {
	if result.ExitCode == 0 {
		result.ExitCode = 1
	}

	for _, m := range result.Messages {
		if m.Kind == types.MessageError {
			log.Error().Str("package", result.Name).Msg(m.Text)
		}
	}

	if result.InstallLocation == "" {
		return
	}

	if paths.IsProtectedLocation(h.paths, result.InstallLocation) {
		log.Error().Str("package", result.Name).Str("location", result.InstallLocation).
			Msg("Install location points at the installation root; refusing to move or roll back. Clean up manually.")
		result.RecordWarning("Install location could not be cleaned automatically: " + result.InstallLocation)
		return
	}

	if move {
		h.quarantine(result)
	}
	if rollback {
		h.rollback(result, cfg)
	}
	h.clearBackup(result.Name)
}

// quarantine moves the install directory from the packages root to the
// failures root, mirroring the relative path.
func (h *Handler) quarantine(result *types.PackageResult) {
	rel, err := filepath.Rel(h.paths.PackagesRoot(), result.InstallLocation)
	if err != nil || strings.HasPrefix(rel, "..") {
		log.Debug().Str("package", result.Name).Str("location", result.InstallLocation).
			Msg("Install location is outside the packages root; nothing to quarantine")
		return
	}
	if !filesystem.DirExists(h.fs, result.InstallLocation) {
		return
	}

	quarantinePath := filepath.Join(h.paths.PackageFailuresRoot(), rel)
	if filesystem.DirExists(h.fs, quarantinePath) {
		if err := h.fs.RemoveAll(quarantinePath); err != nil {
			log.Warn().Err(err).Str("path", quarantinePath).Msg("Cannot clear previous quarantine")
		}
	}
	if err := filesystem.MoveDirectory(h.fs, result.InstallLocation, quarantinePath); err != nil {
		log.Warn().Err(err).Str("package", result.Name).Msg("Cannot quarantine failed package")
		return
	}
	log.Warn().Str("package", result.Name).Str("path", quarantinePath).Msg("Moved failed package to the failures directory")
}

// rollback restores the backup snapshot for the package into the
// packages root, prompting first unless the exit code says the user
// already cancelled.
func (h *Handler) rollback(result *types.PackageResult, cfg *config.Configuration) {
	backupPath := h.findBackup(result)
	if backupPath == "" {
		return
	}

	if h.shouldPrompt(result, cfg) {
		answer := h.prompter.PromptForConfirmation(
			"Would you like to roll back the previous version of "+result.Name+"?",
			[]string{"yes", "no"}, "yes", true)
		if !strings.EqualFold(answer, "yes") {
			log.Info().Str("package", result.Name).Msg("Rollback declined")
			return
		}
	}

	restorePath := filepath.Join(h.paths.PackagesRoot(), result.Name)
	if filesystem.DirExists(h.fs, restorePath) {
		if err := h.fs.RemoveAll(restorePath); err != nil {
			log.Warn().Err(err).Str("path", restorePath).Msg("Cannot clear package directory before rollback")
			return
		}
	}
	if err := filesystem.MoveDirectory(h.fs, backupPath, restorePath); err != nil {
		log.Warn().Err(err).Str("package", result.Name).Msg("Cannot restore rollback snapshot")
		return
	}
	log.Warn().Str("package", result.Name).Msg("Restored previous version from backup")
}

// findBackup locates the rollback snapshot: the mirror of the install
// location under the backup root, or failing that the lexicographically
// greatest <name>* sibling. The chosen path must sit strictly inside the
// backup root.
func (h *Handler) findBackup(result *types.PackageResult) string {
	backupRoot := h.paths.PackageBackupRoot()

	rel, err := filepath.Rel(h.paths.PackagesRoot(), result.InstallLocation)
	if err == nil && !strings.HasPrefix(rel, "..") {
		mirror := filepath.Join(backupRoot, rel)
		if filesystem.DirExists(h.fs, mirror) && isInsideBackupRoot(backupRoot, mirror) {
			return mirror
		}
	}

	entries, err := h.fs.ReadDir(backupRoot)
	if err != nil {
		return ""
	}
	var candidates []string
	prefix := strings.ToLower(result.Name)
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(strings.ToLower(e.Name()), prefix) {
			candidates = append(candidates, filepath.Join(backupRoot, e.Name()))
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	chosen := candidates[len(candidates)-1]
	if !isInsideBackupRoot(backupRoot, chosen) {
		return ""
	}
	return chosen
}

// shouldPrompt suppresses the rollback confirmation for user-cancel exit
// codes; the user already answered once.
func (h *Handler) shouldPrompt(result *types.PackageResult, cfg *config.Configuration) bool {
	if errors.IsUserCancelExitCode(result.ExitCode) {
		return false
	}
	return cfg.PromptForConfirmation
}

// clearBackup removes any lingering rollback directory for the package.
func (h *Handler) clearBackup(name string) {
	backup := filepath.Join(h.paths.PackageBackupRoot(), name)
	if !filesystem.DirExists(h.fs, backup) {
		return
	}
	if err := h.fs.RemoveAll(backup); err != nil {
		log.Warn().Err(err).Str("path", backup).Msg("Cannot remove rollback directory")
	}
}

// isInsideBackupRoot guards against path escape: the candidate must start
// with and not equal the backup root.
func isInsideBackupRoot(backupRoot, candidate string) bool {
	root := filepath.Clean(backupRoot)
	path := filepath.Clean(candidate)
	if strings.EqualFold(root, path) {
		return false
	}
	return strings.HasPrefix(strings.ToLower(path), strings.ToLower(root)+string(filepath.Separator))
}
