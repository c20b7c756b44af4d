// Package config defines the per-operation Configuration record and the
// feature switches that drive the orchestrator. A command-level
// Configuration is expanded into per-package copies; Clone guarantees the
// copies never share mutable state with the original.
package config

// Features holds the boolean switches that change orchestrator behavior.
// List-document overlays may set most of these to true but never clear
// them; the exceptions are documented on the expander.
type Features struct {
	ChecksumFiles                       bool `toml:"checksumFiles"`
	AllowEmptyChecksums                 bool `toml:"allowEmptyChecksums"`
	AllowEmptyChecksumsSecure           bool `toml:"allowEmptyChecksumsSecure"`
	AutoUninstaller                     bool `toml:"autoUninstaller"`
	FailOnAutoUninstaller               bool `toml:"failOnAutoUninstaller"`
	StopOnFirstPackageFailure           bool `toml:"stopOnFirstPackageFailure"`
	ExitOnRebootDetected                bool `toml:"exitOnRebootDetected"`
	UseEnhancedExitCodes                bool `toml:"useEnhancedExitCodes"`
	UsePackageExitCodes                 bool `toml:"usePackageExitCodes"`
	LogEnvironmentValues                bool `toml:"logEnvironmentValues"`
	LockTransactionalInstallFiles       bool `toml:"lockTransactionalInstallFiles"`
	RemovePackageInformationOnUninstall bool `toml:"removePackageInformationOnUninstall"`
	UsePowerShellHost                   bool `toml:"usePowerShellHost"`
	UseRepositoryOptimizations          bool `toml:"useRepositoryOptimizations"`
}

// PlatformInformation describes the host the orchestrator runs on.
type PlatformInformation struct {
	PlatformType           string
	Is64BitOperatingSystem bool
	IsLicensed             bool
}

// IsWindows reports whether the platform is Windows; registry and script
// steps are skipped everywhere else.
func (p PlatformInformation) IsWindows() bool {
	return p.PlatformType == "windows"
}

// SourceCredentials carries feed authentication for one operation.
type SourceCredentials struct {
	User         string
	Password     string
	Certificate  string
	CertPassword string
}

// Configuration describes one package operation. The zero value is not
// usable; start from Default and overlay command-line input.
type Configuration struct {
	CommandName  string
	PackageNames string

	Sources    string
	SourceType string

	Version               string
	Prerelease            bool
	AllowDowngrade        bool
	AllowMultipleVersions bool
	Force                 bool
	Noop                  bool
	ForceX86              bool
	IgnoreDependencies    bool

	InstallArguments  string
	OverrideArguments bool
	PackageParameters string

	ApplyInstallArgumentsToDependencies  bool
	ApplyPackageParametersToDependencies bool

	DownloadChecksum       string
	DownloadChecksumType   string
	DownloadChecksum64     string
	DownloadChecksumType64 string

	PromptForConfirmation      bool
	AcceptLicense              bool
	RegularOutput              bool
	PinPackage                 bool
	SkipPackageInstallProvider bool

	CacheLocation                  string
	CommandExecutionTimeoutSeconds int

	SourceCommand SourceCredentials
	Information   PlatformInformation
	Features      Features
}

// Clone returns a deep copy of the configuration. Every field is a value
// type, so a struct copy is sufficient; keep it that way when adding
// fields, or extend this method.
func (c *Configuration) Clone() *Configuration {
	clone := *c
	return &clone
}
