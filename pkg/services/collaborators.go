package services

import (
	"encoding/base64"
	"os"
	"os/exec"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/types"
)

// LoggingScriptingHost stands in for the PowerShell scripting host on
// hosts where it is unavailable. No script ever runs; the bool returns
// reflect that.
type LoggingScriptingHost struct{}

func (LoggingScriptingHost) Install(cfg *config.Configuration, result *types.PackageResult) bool {
	log.Debug().Str("package", result.Name).Msg("Scripting host unavailable; skipping install scripts")
	return false
}

func (LoggingScriptingHost) Uninstall(cfg *config.Configuration, result *types.PackageResult) bool {
	log.Debug().Str("package", result.Name).Msg("Scripting host unavailable; skipping uninstall scripts")
	return false
}

func (LoggingScriptingHost) BeforeModify(cfg *config.Configuration, result *types.PackageResult) bool {
	return false
}

func (LoggingScriptingHost) InstallNoop(cfg *config.Configuration, result *types.PackageResult) {
	result.RecordMessage(types.MessageNote, "Would have run install scripts for "+result.Name)
}

func (LoggingScriptingHost) UninstallNoop(cfg *config.Configuration, result *types.PackageResult) {
	result.RecordMessage(types.MessageNote, "Would have run uninstall scripts for "+result.Name)
}

// LoggingShimService stands in for the shim generator.
type LoggingShimService struct{}

func (LoggingShimService) Install(cfg *config.Configuration, result *types.PackageResult) {
	log.Debug().Str("package", result.Name).Msg("Shim generation skipped; generator unavailable on this host")
}

func (LoggingShimService) Uninstall(cfg *config.Configuration, result *types.PackageResult) {
	log.Debug().Str("package", result.Name).Msg("Shim removal skipped; generator unavailable on this host")
}

// LoggingAutoUninstaller stands in for the automatic uninstaller.
type LoggingAutoUninstaller struct{}

func (LoggingAutoUninstaller) Run(result *types.PackageResult, cfg *config.Configuration) {
	log.Debug().Str("package", result.Name).Msg("Auto uninstaller has nothing to do on this host")
}

// LoggingPackager stands in for the archive builder and publisher.
type LoggingPackager struct{}

func (LoggingPackager) Pack(cfg *config.Configuration) error {
	log.Warn().Msg("Archive creation is handled by the packaging tool on this host; nothing to do")
	return nil
}

func (LoggingPackager) Push(cfg *config.Configuration) error {
	log.Warn().Msg("Archive publishing is handled by the packaging tool on this host; nothing to do")
	return nil
}

// ExecCommandExecutor runs external commands through os/exec. The exit
// code is surfaced even when the command fails.
type ExecCommandExecutor struct{}

func (ExecCommandExecutor) Execute(command string, args ...string) (int, error) {
	cmd := exec.Command(command, args...)
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

// XorArgumentCodec reversibly obfuscates the argument-replay blob with a
// machine-derived key. It keeps recorded arguments out of casual reach;
// a DPAPI-backed codec can replace it where real secrecy is needed.
type XorArgumentCodec struct{}

func (XorArgumentCodec) Encrypt(plain string) string {
	key := machineKey()
	data := []byte(plain)
	for i := range data {
		data[i] ^= key[i%len(key)]
	}
	return base64.StdEncoding.EncodeToString(data)
}

func (XorArgumentCodec) Decrypt(blob string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", err
	}
	key := machineKey()
	for i := range data {
		data[i] ^= key[i%len(key)]
	}
	return string(data), nil
}

func machineKey() []byte {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "chocolatey"
	}
	return []byte(host)
}
