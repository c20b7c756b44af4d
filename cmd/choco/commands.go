package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func packageNamesArg(args []string) string {
	return strings.Join(args, ";")
}

var installCmd = &cobra.Command{
	Use:   "install <package|packages.config>...",
	Short: "Install packages from configured sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(packageNamesArg(args))
		_, err := coord.Install(cfg)
		return err
	},
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade <package>...",
	Short: "Upgrade installed packages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(packageNamesArg(args))
		_, err := coord.Upgrade(cfg)
		return err
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <package>...",
	Short: "Uninstall installed packages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(packageNamesArg(args))
		_, err := coord.Uninstall(cfg)
		return err
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(packageNamesArg(args))
		for _, result := range coord.List(cfg) {
			if cfg.RegularOutput {
				fmt.Printf("%s %s\n", result.Name, result.Metadata.Version)
			} else {
				fmt.Printf("%s|%s\n", result.Name, result.Metadata.Version)
			}
		}
		return nil
	},
}

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "Show packages with a newer version available",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig("")
		outdated, err := coord.Outdated(cfg)
		if err != nil {
			return err
		}
		for _, result := range outdated {
			fmt.Printf("%s\n", result.FirstMessage("info"))
		}
		return nil
	},
}

var packCmd = &cobra.Command{
	Use:   "pack [nuspec]",
	Short: "Build a package archive from a manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(packageNamesArg(args))
		return coord.Pack(cfg)
	},
}

var pushCmd = &cobra.Command{
	Use:   "push [nupkg]",
	Short: "Publish a package archive to a source",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(packageNamesArg(args))
		return coord.Push(cfg)
	},
}

func init() {
	installCmd.Flags().StringVar(&flagVersion, "version", "", "Specific version to install")
	installCmd.Flags().BoolVar(&flagPre, "pre", false, "Include prerelease versions")
	installCmd.Flags().StringVar(&flagInstallArgs, "install-arguments", "", "Arguments for the native installer")
	installCmd.Flags().StringVar(&flagPackageParams, "package-parameters", "", "Parameters for the package")
	installCmd.Flags().BoolVar(&flagPin, "pin-package", false, "Pin the package after install")
	installCmd.Flags().BoolVarP(&flagSkipScripts, "skip-automation-scripts", "n", false, "Skip automation scripts")

	upgradeCmd.Flags().StringVar(&flagVersion, "version", "", "Specific version to upgrade to")
	upgradeCmd.Flags().BoolVar(&flagPre, "pre", false, "Include prerelease versions")
	upgradeCmd.Flags().BoolVarP(&flagSkipScripts, "skip-automation-scripts", "n", false, "Skip automation scripts")

	uninstallCmd.Flags().BoolVarP(&flagSkipScripts, "skip-automation-scripts", "n", false, "Skip automation scripts")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(outdatedCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(pushCmd)
}
