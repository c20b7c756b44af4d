package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/types"
)

func installCfg() *config.Configuration {
	cfg := config.Default()
	cfg.CommandName = "install"
	return cfg
}

func okResult(name, version string) *types.PackageResult {
	return types.NewPackageResult(name, version)
}

func TestReportSixPackages(t *testing.T) {
	results := map[string]*types.PackageResult{}
	for _, spec := range []struct{ name, version string }{
		{"alpha", "1.0.0"}, {"bravo", "2.0.0"}, {"charlie", "3.0.0"}, {"delta", "4.0.0"},
	} {
		results[spec.name] = okResult(spec.name, spec.version)
	}

	warned := okResult("echo", "5.0.0")
	warned.RecordWarning("echo wrote outside its install directory")
	results["echo"] = warned

	failed := okResult("foxtrot", "6.0.0")
	failed.ExitCode = 1603
	failed.RecordError("Fatal error during installation")
	results["foxtrot"] = failed

	var buf bytes.Buffer
	failures := NewTo(&buf).Report(installCfg(), results)
	out := buf.String()

	assert.Equal(t, 1, failures)
	// 5 successes out of 6; warning counts as success.
	assert.Contains(t, out, "installed 5/6")
	for _, line := range []string{
		"alpha v1.0.0", "bravo v2.0.0", "charlie v3.0.0", "delta v4.0.0", "echo v5.0.0",
	} {
		assert.Contains(t, out, line)
	}
	assert.Contains(t, out, "echo v5.0.0 - echo wrote outside its install directory")
	assert.Contains(t, out, "foxtrot v6.0.0 (exited 1603) - Fatal error during installation")
}

func TestReportSkipsSuccessEnumerationBelowThreshold(t *testing.T) {
	results := map[string]*types.PackageResult{
		"alpha": okResult("alpha", "1.0.0"),
		"bravo": okResult("bravo", "2.0.0"),
	}

	var buf bytes.Buffer
	failures := NewTo(&buf).Report(installCfg(), results)

	assert.Equal(t, 0, failures)
	assert.NotContains(t, buf.String(), "alpha v1.0.0")
}

func TestReportAlwaysEnumeratesRebootRequired(t *testing.T) {
	reboot := okResult("foo", "1.0.0")
	reboot.ExitCode = 3010
	results := map[string]*types.PackageResult{"foo": reboot}

	var buf bytes.Buffer
	NewTo(&buf).Report(installCfg(), results)

	assert.Contains(t, buf.String(), "foo v1.0.0 (exit code 3010)")
	assert.Contains(t, buf.String(), "reboot is necessary")
}

func TestReportMachineReadable(t *testing.T) {
	failed := okResult("bad", "0.1.0")
	failed.RecordError("boom")
	skipped := okResult("skip", "1.0.0")
	skipped.Inconclusive = true
	results := map[string]*types.PackageResult{
		"good": okResult("good", "2.0.0"),
		"bad":  failed,
		"skip": skipped,
	}

	cfg := installCfg()
	cfg.RegularOutput = false

	var buf bytes.Buffer
	failures := NewTo(&buf).Report(cfg, results)

	assert.Equal(t, 1, failures)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines, "good|2.0.0|installed")
	assert.Contains(t, lines, "bad|0.1.0|failed")
	assert.Contains(t, lines, "skip|1.0.0|skipped")
}

func TestCommandVerb(t *testing.T) {
	assert.Equal(t, "installed", CommandVerb("install"))
	assert.Equal(t, "upgraded", CommandVerb("upgrade"))
	assert.Equal(t, "uninstalled", CommandVerb("uninstall"))
}
