package testutil

import (
	"sync"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/types"
)

// FakeRegistry is an in-memory RegistryService whose snapshots tests set
// directly. Successive calls return the snapshots queued with Push; the
// last one repeats.
type FakeRegistry struct {
	mu        sync.Mutex
	installer []types.RegistrySnapshot
	env       []types.EnvironmentSnapshot
}

// PushInstallers queues the next installer snapshot.
func (f *FakeRegistry) PushInstallers(snap types.RegistrySnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installer = append(f.installer, snap)
}

// PushEnv queues the next environment snapshot.
func (f *FakeRegistry) PushEnv(snap types.EnvironmentSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.env = append(f.env, snap)
}

func (f *FakeRegistry) GetInstallerKeys() (types.RegistrySnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.installer) == 0 {
		return types.RegistrySnapshot{}, nil
	}
	snap := f.installer[0]
	if len(f.installer) > 1 {
		f.installer = f.installer[1:]
	}
	return snap, nil
}

func (f *FakeRegistry) GetEnvironmentValues() (types.EnvironmentSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.env) == 0 {
		return types.EnvironmentSnapshot{}, nil
	}
	snap := f.env[0]
	if len(f.env) > 1 {
		f.env = f.env[1:]
	}
	return snap, nil
}

// FakeScriptingHost records calls and answers with canned run flags.
type FakeScriptingHost struct {
	InstallRan   bool
	UninstallRan bool

	InstallCalls   []string
	UninstallCalls []string
}

func (f *FakeScriptingHost) Install(cfg *config.Configuration, result *types.PackageResult) bool {
	f.InstallCalls = append(f.InstallCalls, result.Name)
	return f.InstallRan
}

func (f *FakeScriptingHost) Uninstall(cfg *config.Configuration, result *types.PackageResult) bool {
	f.UninstallCalls = append(f.UninstallCalls, result.Name)
	return f.UninstallRan
}

func (f *FakeScriptingHost) BeforeModify(cfg *config.Configuration, result *types.PackageResult) bool {
	return false
}

func (f *FakeScriptingHost) InstallNoop(cfg *config.Configuration, result *types.PackageResult)   {}
func (f *FakeScriptingHost) UninstallNoop(cfg *config.Configuration, result *types.PackageResult) {}

// FakeExecutor records external command invocations.
type FakeExecutor struct {
	Calls [][]string
	Code  int
	Err   error
}

func (f *FakeExecutor) Execute(command string, args ...string) (int, error) {
	f.Calls = append(f.Calls, append([]string{command}, args...))
	return f.Code, f.Err
}

// FakeShims records shim install/uninstall calls.
type FakeShims struct {
	Installed   []string
	Uninstalled []string
}

func (f *FakeShims) Install(cfg *config.Configuration, result *types.PackageResult) {
	f.Installed = append(f.Installed, result.Name)
}

func (f *FakeShims) Uninstall(cfg *config.Configuration, result *types.PackageResult) {
	f.Uninstalled = append(f.Uninstalled, result.Name)
}
