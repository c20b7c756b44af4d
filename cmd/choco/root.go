package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/coordinator"
	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/paths"
	"github.com/chocoforge/choco/pkg/procstate"
	"github.com/chocoforge/choco/pkg/types"
)

var (
	verbosity   int
	flagSource  string
	flagVersion string
	flagForce   bool
	flagYes     bool
	flagNoop    bool
	flagLimit   bool
	flagPre     bool

	flagInstallArgs   string
	flagPackageParams string
	flagPin           bool
	flagSkipScripts   bool

	appPaths paths.Paths
	process  types.ProcessState
	coord    *coordinator.Coordinator

	rootCmd = &cobra.Command{
		Use:   "choco",
		Short: "A package manager for Windows",
		Long: `choco coordinates package operations end to end: resolving packages
from configured sources, running their automation, snapshotting system
state so uninstall can undo work, and recovering from partial failures.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			appPaths = paths.New()
			process = procstate.NewOS()
			coord = coordinator.New(coordinator.Deps{
				Paths:   appPaths,
				Process: process,
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Msg(err.Error())
		if process == nil || process.ExitCode() == 0 {
			return errors.ExitFailure
		}
	}
	if process == nil {
		return errors.ExitSuccess
	}
	return process.ExitCode()
}

// buildConfig assembles the command-level configuration from the config
// file and flags.
func buildConfig(packageNames string) *config.Configuration {
	cfg := config.Load(appPaths.ConfigFilePath())
	cfg.PackageNames = packageNames
	if flagSource != "" {
		cfg.Sources = flagSource
	}
	cfg.Version = flagVersion
	cfg.Force = flagForce
	cfg.Noop = flagNoop
	cfg.Prerelease = flagPre
	cfg.InstallArguments = flagInstallArgs
	cfg.PackageParameters = flagPackageParams
	cfg.PinPackage = flagPin
	cfg.SkipPackageInstallProvider = flagSkipScripts
	if flagYes {
		cfg.PromptForConfirmation = false
		cfg.AcceptLicense = true
	}
	if flagLimit {
		cfg.RegularOutput = false
	}
	return cfg
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVarP(&flagSource, "source", "s", "", "Source location(s) for the operation")
	rootCmd.PersistentFlags().BoolVarP(&flagForce, "force", "f", false, "Force the behavior, overriding warnings")
	rootCmd.PersistentFlags().BoolVarP(&flagYes, "yes", "y", false, "Answer yes to all prompts and accept licenses")
	rootCmd.PersistentFlags().BoolVar(&flagNoop, "what-if", false, "Preview the operation without making changes")
	rootCmd.PersistentFlags().BoolVarP(&flagLimit, "limit-output", "r", false, "Limit output to machine-parseable lines")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("choco version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}
