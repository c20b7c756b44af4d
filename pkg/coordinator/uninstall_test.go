package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chocoerrors "github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/types"
)

func TestUninstallCleanupRemovesRecordWhenFeatureSet(t *testing.T) {
	h := newHarness(t)
	h.seedPackageDir(t, "foo")
	h.infoSvc.Save(&types.PackageInformation{
		Metadata: types.PackageMetadata{ID: "foo", Version: "1.0.0"},
		RegistrySnapshot: &types.RegistrySnapshot{Keys: []types.InstallerKey{{
			KeyPath: `HKLM\...\Foo`,
		}}},
	})

	h.runner.results = []*types.PackageResult{h.installedResult("foo", "1.0.0")}

	cfg := testConfig()
	cfg.Features.RemovePackageInformationOnUninstall = true

	_, err := h.coord.Uninstall(cfg)
	require.NoError(t, err)

	// Round trip: the fresh record carries no registry snapshot.
	info := h.infoSvc.Get(types.PackageMetadata{ID: "foo", Version: "1.0.0"})
	assert.Nil(t, info.RegistrySnapshot)
	assert.Equal(t, 0, h.proc.ExitCode())
}

func TestUninstallCleanupKeepsSanitizedRecordByDefault(t *testing.T) {
	h := newHarness(t)
	h.seedPackageDir(t, "foo")
	h.infoSvc.Save(&types.PackageInformation{
		Metadata: types.PackageMetadata{ID: "foo", Version: "1.0.0"},
		IsPinned: true,
		RegistrySnapshot: &types.RegistrySnapshot{Keys: []types.InstallerKey{{
			KeyPath: `HKLM\...\Foo`,
		}}},
	})

	h.runner.results = []*types.PackageResult{h.installedResult("foo", "1.0.0")}

	_, err := h.coord.Uninstall(testConfig())
	require.NoError(t, err)

	info := h.infoSvc.Get(types.PackageMetadata{ID: "foo", Version: "1.0.0"})
	assert.Nil(t, info.RegistrySnapshot)
	assert.True(t, info.IsPinned)
}

func TestUninstallCleanupClearsLeftoverDirectories(t *testing.T) {
	h := newHarness(t)
	h.seedPackageDir(t, "foo")
	require.NoError(t, h.fs.WriteFile("/choco/lib-bad/foo/x.txt", []byte("x"), 0644))
	require.NoError(t, h.fs.WriteFile("/choco/lib-bkp/foo/y.txt", []byte("y"), 0644))

	h.runner.results = []*types.PackageResult{h.installedResult("foo", "1.0.0")}

	_, err := h.coord.Uninstall(testConfig())
	require.NoError(t, err)

	assert.False(t, filesystem.DirExists(h.fs, "/choco/lib-bad/foo"))
	assert.False(t, filesystem.DirExists(h.fs, "/choco/lib-bkp/foo"))
}

func TestUninstallForceRemovesPackageDirectory(t *testing.T) {
	h := newHarness(t)
	h.seedPackageDir(t, "foo")

	h.runner.results = []*types.PackageResult{h.installedResult("foo", "1.0.0")}

	cfg := testConfig()
	cfg.Force = true

	_, err := h.coord.Uninstall(cfg)
	require.NoError(t, err)
	assert.False(t, filesystem.DirExists(h.fs, "/choco/lib/foo"))
}

func TestUninstallLegacyVersionedPathRecovered(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.fs.WriteFile("/choco/lib/foo.1.0.0/foo.nuspec", []byte("<package/>"), 0644))

	r := types.NewPackageResult("foo", "1.0.0")
	r.InstallLocation = "/choco/lib/foo"
	h.runner.results = []*types.PackageResult{r}

	_, err := h.coord.Uninstall(testConfig())
	require.NoError(t, err)
	assert.Equal(t, "/choco/lib/foo.1.0.0", r.InstallLocation)
}

func TestUninstallFailureReturnsErrorAndSetsExitCode(t *testing.T) {
	h := newHarness(t)
	h.seedPackageDir(t, "foo")

	r := h.installedResult("foo", "1.0.0")
	r.RecordError("uninstall script exploded")
	h.runner.results = []*types.PackageResult{r}

	_, err := h.coord.Uninstall(testConfig())
	require.Error(t, err)
	assert.True(t, chocoerrors.IsCode(err, chocoerrors.ErrUninstallFail))
	assert.Equal(t, 1, h.proc.ExitCode())
	// The failed uninstall never quarantines the package directory.
	assert.True(t, filesystem.DirExists(h.fs, "/choco/lib/foo"))
}

func TestUninstallRebootExit(t *testing.T) {
	h := newHarness(t)
	h.seedPackageDir(t, "foo")

	r := h.installedResult("foo", "1.0.0")
	r.ExitCode = 1641
	h.runner.results = []*types.PackageResult{r}

	cfg := testConfig()
	cfg.Features.ExitOnRebootDetected = true

	_, err := h.coord.Uninstall(cfg)
	require.Error(t, err)
	assert.True(t, chocoerrors.IsCode(err, chocoerrors.ErrRebootRequired))
	assert.Equal(t, chocoerrors.ExitInstallSuspend, h.proc.ExitCode())
}

func TestUninstallSideloadUnlinksStagedPayload(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.fs.WriteFile("/choco/lib/acme.extension/acme.nuspec", []byte("<package/>"), 0644))
	require.NoError(t, h.fs.WriteFile("/choco/extensions/acme/acme.dll", []byte("v1"), 0644))

	r := types.NewPackageResult("acme.extension", "1.0.0")
	r.InstallLocation = "/choco/lib/acme.extension"
	h.runner.results = []*types.PackageResult{r}

	_, err := h.coord.Uninstall(testConfig())
	require.NoError(t, err)
	assert.False(t, filesystem.FileExists(h.fs, "/choco/extensions/acme/acme.dll"))
}

func TestUninstallOnWindowsRemovesShimsRunsScriptsAndCancelsShutdown(t *testing.T) {
	h := newHarness(t)
	h.seedPackageDir(t, "foo")
	h.host.UninstallRan = true
	h.runner.results = []*types.PackageResult{h.installedResult("foo", "1.0.0")}

	cfg := windowsConfig()
	_, err := h.coord.Uninstall(cfg)
	require.NoError(t, err)

	// Shim removal and uninstall scripts ran, then shutdown /a.
	assert.Equal(t, []string{"foo"}, h.shims.Uninstalled)
	assert.Equal(t, []string{"foo"}, h.host.UninstallCalls)
	require.NotEmpty(t, h.executor.Calls)
	assert.Equal(t, []string{"shutdown", "/a"}, h.executor.Calls[0])
}
