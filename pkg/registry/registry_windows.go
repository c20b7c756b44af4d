//go:build windows

package registry

import (
	"golang.org/x/sys/windows/registry"

	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/types"
)

var log = logging.GetLogger("registry")

var uninstallRoots = []struct {
	root registry.Key
	path string
	name string
}{
	{registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`, `HKLM\SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`, `HKLM\SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.CURRENT_USER, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`, `HKCU\SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
}

type windowsService struct{}

func newPlatform() types.RegistryService {
	return windowsService{}
}

func (windowsService) GetInstallerKeys() (types.RegistrySnapshot, error) {
	var snap types.RegistrySnapshot
	for _, r := range uninstallRoots {
		key, err := registry.OpenKey(r.root, r.path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		names, err := key.ReadSubKeyNames(-1)
		if err != nil {
			key.Close()
			continue
		}
		for _, name := range names {
			sub, err := registry.OpenKey(r.root, r.path+`\`+name, registry.QUERY_VALUE)
			if err != nil {
				log.Trace().Err(err).Str("key", name).Msg("Cannot open uninstall subkey")
				continue
			}
			entry := types.InstallerKey{KeyPath: r.name + `\` + name}
			entry.DisplayName, _, _ = sub.GetStringValue("DisplayName")
			entry.DisplayVersion, _, _ = sub.GetStringValue("DisplayVersion")
			entry.InstallLocation, _, _ = sub.GetStringValue("InstallLocation")
			entry.UninstallString, _, _ = sub.GetStringValue("UninstallString")
			quiet, _, err := sub.GetStringValue("QuietUninstallString")
			if err == nil && quiet != "" {
				entry.UninstallString = quiet
				entry.HasQuietUninstall = true
			}
			sub.Close()
			snap.Keys = append(snap.Keys, entry)
		}
		key.Close()
	}
	return snap, nil
}

func (windowsService) GetEnvironmentValues() (types.EnvironmentSnapshot, error) {
	var snap types.EnvironmentSnapshot
	appendScope := func(root registry.Key, path, parent string) {
		key, err := registry.OpenKey(root, path, registry.QUERY_VALUE)
		if err != nil {
			return
		}
		defer key.Close()
		names, err := key.ReadValueNames(-1)
		if err != nil {
			return
		}
		for _, name := range names {
			value, _, err := key.GetStringValue(name)
			if err != nil {
				continue
			}
			snap.Values = append(snap.Values, types.EnvironmentValue{
				ParentKey: parent,
				Name:      name,
				Value:     value,
			})
		}
	}
	appendScope(registry.CURRENT_USER, `Environment`, UserScope)
	appendScope(registry.LOCAL_MACHINE, `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`, MachineScope)
	return snap, nil
}
