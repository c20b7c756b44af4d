package expand

import (
	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/xmlservice"
)

// applySpec overlays one package spec onto a cloned configuration. String
// fields overlay when non-empty; boolean fields only ever set true, with
// the documented exceptions that clear features instead.
func applySpec(cfg *config.Configuration, spec xmlservice.PackageSpec, knownSourceType func(string) bool) {
	cfg.PackageNames = spec.ID

	if spec.Source != "" {
		cfg.Sources = spec.Source
		if knownSourceType(spec.Source) {
			cfg.SourceType = spec.Source
		}
	}
	if spec.Version != "" {
		cfg.Version = spec.Version
	}
	if spec.InstallArguments != "" {
		cfg.InstallArguments = spec.InstallArguments
	}
	if spec.PackageParameters != "" {
		cfg.PackageParameters = spec.PackageParameters
	}
	if spec.User != "" {
		cfg.SourceCommand.User = spec.User
	}
	if spec.Password != "" {
		cfg.SourceCommand.Password = spec.Password
	}
	if spec.Cert != "" {
		cfg.SourceCommand.Certificate = spec.Cert
	}
	if spec.CertPassword != "" {
		cfg.SourceCommand.CertPassword = spec.CertPassword
	}
	if spec.CacheLocation != "" {
		cfg.CacheLocation = spec.CacheLocation
	}
	if spec.DownloadChecksum != "" {
		cfg.DownloadChecksum = spec.DownloadChecksum
	}
	if spec.DownloadChecksumType != "" {
		cfg.DownloadChecksumType = spec.DownloadChecksumType
	}
	if spec.DownloadChecksum64 != "" {
		cfg.DownloadChecksum64 = spec.DownloadChecksum64
	}
	if spec.DownloadChecksumType64 != "" {
		cfg.DownloadChecksumType64 = spec.DownloadChecksumType64
	}
	if spec.ExecutionTimeout != -1 {
		cfg.CommandExecutionTimeoutSeconds = spec.ExecutionTimeout
	}

	// Set-true-only booleans. A document can opt a package into behavior
	// but never out of something the command line asked for.
	if spec.Prerelease {
		cfg.Prerelease = true
	}
	if spec.OverrideArguments {
		cfg.OverrideArguments = true
	}
	if spec.Force {
		cfg.Force = true
	}
	if spec.ForceX86 {
		cfg.ForceX86 = true
	}
	if spec.AllowDowngrade {
		cfg.AllowDowngrade = true
	}
	if spec.AllowMultipleVersions {
		cfg.AllowMultipleVersions = true
	}
	if spec.IgnoreDependencies {
		cfg.IgnoreDependencies = true
	}
	if spec.ApplyInstallArgumentsToDependencies {
		cfg.ApplyInstallArgumentsToDependencies = true
	}
	if spec.ApplyPackageParametersToDependencies {
		cfg.ApplyPackageParametersToDependencies = true
	}
	if spec.SkipAutomationScripts {
		cfg.SkipPackageInstallProvider = true
	}
	if spec.PinPackage {
		cfg.PinPackage = true
	}

	// requireChecksums is the one overlay that forces features off.
	if spec.RequireChecksums {
		cfg.Features.AllowEmptyChecksums = false
		cfg.Features.AllowEmptyChecksumsSecure = false
	}

	// confirm answers prompts up front.
	if spec.Confirm {
		cfg.PromptForConfirmation = false
		cfg.AcceptLicense = true
	}

	// These three clear their feature rather than set one.
	if spec.UseSystemPowershell {
		cfg.Features.UsePowerShellHost = false
	}
	if spec.IgnoreDetectedReboot {
		cfg.Features.ExitOnRebootDetected = false
	}
	if spec.DisableRepositoryOptimizations {
		cfg.Features.UseRepositoryOptimizations = false
	}
}
