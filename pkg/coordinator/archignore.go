package coordinator

import (
	"path/filepath"
	"strings"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/types"
)

// writeArchIgnoreFiles marks the wrong-architecture executables under
// tools/x86 and tools/x64 with sibling .ignore files so the shim
// generator skips them. When a package only ships the other
// architecture, those executables are shimmed instead and no ignore
// files are written.
func (c *Coordinator) writeArchIgnoreFiles(result *types.PackageResult, cfg *config.Configuration) {
	if result.InstallLocation == "" {
		return
	}

	x86Exes := exeFiles(c.deps.FS, filepath.Join(result.InstallLocation, "tools", "x86"))
	x64Exes := exeFiles(c.deps.FS, filepath.Join(result.InstallLocation, "tools", "x64"))

	use64 := cfg.Information.Is64BitOperatingSystem && !cfg.ForceX86
	for _, exe := range planArchIgnores(x86Exes, x64Exes, use64) {
		if err := c.deps.FS.WriteFile(exe+".ignore", []byte{}, 0644); err != nil {
			c.log.Warn().Err(err).Str("file", exe).Msg("Cannot write ignore marker")
		}
	}
}

// planArchIgnores returns the executables to mark ignored. The wrong
// architecture's executables are ignored, unless the preferred
// architecture has none and the other does, in which case nothing is
// ignored and the fallback copies get shimmed.
func planArchIgnores(x86Exes, x64Exes []string, use64 bool) []string {
	if use64 {
		if len(x64Exes) == 0 && len(x86Exes) > 0 {
			return nil
		}
		return x86Exes
	}
	if len(x86Exes) == 0 && len(x64Exes) > 0 {
		return nil
	}
	return x64Exes
}

func exeFiles(fsys types.FS, dir string) []string {
	var exes []string
	for _, file := range filesystem.ListFiles(fsys, dir) {
		if strings.EqualFold(filepath.Ext(file), ".exe") {
			exes = append(exes, file)
		}
	}
	return exes
}
