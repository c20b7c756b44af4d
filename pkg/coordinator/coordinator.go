// Package coordinator runs the package-operation lifecycle: it expands
// command input into per-package configurations, dispatches each to the
// matching source runner, drives the post-materialization pipeline for
// every package result, and feeds outcomes to the failure handler and
// reporter. One command invocation runs on one goroutine; per-package
// order is what makes the state snapshots meaningful.
package coordinator

import (
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/events"
	"github.com/chocoforge/choco/pkg/expand"
	"github.com/chocoforge/choco/pkg/failure"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/notify"
	"github.com/chocoforge/choco/pkg/paths"
	"github.com/chocoforge/choco/pkg/pending"
	"github.com/chocoforge/choco/pkg/pkginfo"
	"github.com/chocoforge/choco/pkg/prompt"
	"github.com/chocoforge/choco/pkg/procstate"
	"github.com/chocoforge/choco/pkg/registry"
	"github.com/chocoforge/choco/pkg/report"
	"github.com/chocoforge/choco/pkg/services"
	"github.com/chocoforge/choco/pkg/snapshot"
	"github.com/chocoforge/choco/pkg/sources"
	"github.com/chocoforge/choco/pkg/types"
	"github.com/chocoforge/choco/pkg/validation"
)

// Deps carries every collaborator the coordinator needs. Zero fields are
// filled with the stock implementation by New.
type Deps struct {
	FS         types.FS
	Paths      paths.Paths
	Dispatcher *sources.Dispatcher

	Scripting       types.ScriptingHost
	Shims           types.ShimService
	Files           types.FilesService
	ConfigTransform types.ConfigTransformService
	PackageInfo     types.PackageInfoService
	AutoUninstaller types.AutoUninstallerService
	ArgumentCodec   types.ArgumentCodec
	Prompter        types.Prompter
	Registry        types.RegistryService
	Process         types.ProcessState
	Executor        types.CommandExecutor
	Packager        types.Packager
	Events          *events.Bus
	Reporter        *report.Reporter
	Notifier        *notify.Notifier

	// ResetEnvironment refreshes the process environment before each
	// package pipeline; the stock hook only logs.
	ResetEnvironment func(cfg *config.Configuration)
}

// Coordinator mediates between commands and source runners.
type Coordinator struct {
	deps      Deps
	expander  *expand.Expander
	validator *validation.Validator
	pending   *pending.Marker
	snapshots *snapshot.Snapshotter
	failures  *failure.Handler
	log       zerolog.Logger
}

// New wires a Coordinator, substituting stock implementations for any
// collaborator left nil in deps.
func New(deps Deps) *Coordinator {
	if deps.FS == nil {
		deps.FS = filesystem.NewOS()
	}
	if deps.Paths == nil {
		deps.Paths = paths.New()
	}
	if deps.PackageInfo == nil {
		deps.PackageInfo = pkginfo.New(deps.FS, deps.Paths)
	}
	if deps.Dispatcher == nil {
		executor := deps.Executor
		if executor == nil {
			executor = services.ExecCommandExecutor{}
		}
		deps.Dispatcher = sources.NewDispatcher(
			sources.NewNormalRunner(deps.FS, deps.Paths, deps.PackageInfo),
			sources.NewWindowsFeaturesRunner(executor),
			sources.NewCygwinRunner(executor),
		)
	}
	if deps.Scripting == nil {
		deps.Scripting = services.LoggingScriptingHost{}
	}
	if deps.Shims == nil {
		deps.Shims = services.LoggingShimService{}
	}
	if deps.Files == nil {
		deps.Files = services.NewFilesService(deps.FS)
	}
	if deps.ConfigTransform == nil {
		deps.ConfigTransform = services.NoopConfigTransform{}
	}
	if deps.AutoUninstaller == nil {
		deps.AutoUninstaller = services.LoggingAutoUninstaller{}
	}
	if deps.ArgumentCodec == nil {
		deps.ArgumentCodec = services.XorArgumentCodec{}
	}
	if deps.Prompter == nil {
		deps.Prompter = prompt.New()
	}
	if deps.Process == nil {
		deps.Process = procstate.NewOS()
	}
	if deps.Executor == nil {
		deps.Executor = services.ExecCommandExecutor{}
	}
	if deps.Packager == nil {
		deps.Packager = services.LoggingPackager{}
	}
	if deps.Events == nil {
		deps.Events = events.NewBus()
	}
	if deps.Reporter == nil {
		deps.Reporter = report.New()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.New(rand.New(rand.NewSource(rand.Int63())))
	}
	if deps.ResetEnvironment == nil {
		deps.ResetEnvironment = func(cfg *config.Configuration) {
			l := logging.GetLogger("coordinator")
			l.Trace().Msg("Environment refresh requested")
		}
	}

	c := &Coordinator{
		deps: deps,
		log:  logging.GetLogger("coordinator"),
	}
	c.expander = expand.New(deps.FS, deps.Dispatcher.IsKnown)
	c.validator = validation.New(deps.FS)
	c.pending = pending.New(deps.FS, deps.Paths)
	c.snapshots = snapshot.New(snapshotService(deps))
	c.failures = failure.New(deps.FS, deps.Paths, deps.Prompter)
	return c
}

// snapshotService picks the registry reader: an injected one wins (tests
// inject fakes through Deps.Registry on the snapshotter), otherwise the
// platform reader.
func snapshotService(deps Deps) types.RegistryService {
	if deps.Registry != nil {
		return deps.Registry
	}
	return registry.New()
}

// Pending exposes the pending marker for lock-leak assertions in tests.
func (c *Coordinator) Pending() *pending.Marker {
	return c.pending
}
