package coordinator

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/notify"
	"github.com/chocoforge/choco/pkg/paths"
	"github.com/chocoforge/choco/pkg/pkginfo"
	"github.com/chocoforge/choco/pkg/procstate"
	"github.com/chocoforge/choco/pkg/prompt"
	"github.com/chocoforge/choco/pkg/report"
	"github.com/chocoforge/choco/pkg/sources"
	"github.com/chocoforge/choco/pkg/testutil"
	"github.com/chocoforge/choco/pkg/types"
)

// scriptedRunner is a SourceRunner whose install/upgrade/uninstall
// results the test scripts up front. It honors callback errors the way
// real runners must.
type scriptedRunner struct {
	results []*types.PackageResult

	removedRollbacks []string
}

func (s *scriptedRunner) SourceType() string { return "normal" }

func (s *scriptedRunner) EnsureSourceAppInstalled(*config.Configuration, types.PackageResultCallback) {
}

func (s *scriptedRunner) Count(*config.Configuration) int { return len(s.results) }

func (s *scriptedRunner) ListNoop(*config.Configuration) {}

func (s *scriptedRunner) ListRun(*config.Configuration) []*types.PackageResult { return s.results }

func (s *scriptedRunner) InstallNoop(*config.Configuration, types.PackageResultCallback) {}

func (s *scriptedRunner) InstallRun(cfg *config.Configuration, onResult types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	return s.drain(cfg, onResult)
}

func (s *scriptedRunner) UpgradeNoop(*config.Configuration, types.PackageResultCallback) {}

func (s *scriptedRunner) UpgradeRun(cfg *config.Configuration, onResult types.PackageResultCallback, _ types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	return s.drain(cfg, onResult)
}

func (s *scriptedRunner) UninstallNoop(*config.Configuration, types.PackageResultCallback) {}

func (s *scriptedRunner) UninstallRun(cfg *config.Configuration, onResult types.PackageResultCallback, _ types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	return s.drain(cfg, onResult)
}

func (s *scriptedRunner) GetOutdated(*config.Configuration) (map[string]*types.PackageResult, error) {
	out := map[string]*types.PackageResult{}
	for _, r := range s.results {
		out[r.LowerName()] = r
	}
	return out, nil
}

func (s *scriptedRunner) RemoveRollbackDirectoryIfExists(name string) {
	s.removedRollbacks = append(s.removedRollbacks, name)
}

func (s *scriptedRunner) drain(cfg *config.Configuration, onResult types.PackageResultCallback) (map[string]*types.PackageResult, error) {
	out := map[string]*types.PackageResult{}
	for _, r := range s.results {
		out[r.LowerName()] = r
		if err := onResult(r, cfg); err != nil {
			return out, err
		}
	}
	return out, nil
}

// harness bundles the coordinator under test with its observable fakes.
type harness struct {
	fs       *testutil.MemoryFS
	paths    paths.Paths
	proc     *procstate.Fake
	runner   *scriptedRunner
	registry *testutil.FakeRegistry
	host     *testutil.FakeScriptingHost
	shims    *testutil.FakeShims
	executor *testutil.FakeExecutor
	infoSvc  *pkginfo.Service
	coord    *Coordinator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fs := testutil.NewMemoryFS()
	p := paths.NewAt("/choco")
	require.NoError(t, fs.MkdirAll("/choco/lib", 0755))

	h := &harness{
		fs:       fs,
		paths:    p,
		proc:     procstate.NewFake(),
		runner:   &scriptedRunner{},
		registry: &testutil.FakeRegistry{},
		host:     &testutil.FakeScriptingHost{},
		shims:    &testutil.FakeShims{},
		executor: &testutil.FakeExecutor{},
		infoSvc:  pkginfo.New(fs, p),
	}
	h.coord = New(Deps{
		FS:          fs,
		Paths:       p,
		Dispatcher:  sources.NewDispatcher(h.runner),
		Scripting:   h.host,
		Shims:       h.shims,
		PackageInfo: h.infoSvc,
		Registry:    h.registry,
		Process:     h.proc,
		Executor:    h.executor,
		Prompter:    &prompt.Static{},
		Reporter:    report.NewTo(&bytes.Buffer{}),
		Notifier:    notify.NewTo(rand.New(rand.NewSource(1)), &bytes.Buffer{}),
	})
	return h
}

func (h *harness) installedResult(name, version string) *types.PackageResult {
	r := types.NewPackageResult(name, version)
	r.InstallLocation = "/choco/lib/" + name
	return r
}

func (h *harness) seedPackageDir(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, h.fs.WriteFile("/choco/lib/"+name+"/"+name+".nuspec", []byte("<package/>"), 0644))
}

func testConfig() *config.Configuration {
	cfg := config.Default()
	cfg.Sources = "/feed"
	cfg.PackageNames = "foo"
	cfg.PromptForConfirmation = false
	return cfg
}

func windowsConfig() *config.Configuration {
	cfg := testConfig()
	cfg.Information.PlatformType = "windows"
	cfg.Information.Is64BitOperatingSystem = true
	return cfg
}
