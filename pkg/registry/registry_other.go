//go:build !windows

package registry

import "github.com/chocoforge/choco/pkg/types"

type emptyService struct{}

func newPlatform() types.RegistryService {
	return emptyService{}
}

func (emptyService) GetInstallerKeys() (types.RegistrySnapshot, error) {
	return types.RegistrySnapshot{}, nil
}

func (emptyService) GetEnvironmentValues() (types.EnvironmentSnapshot, error) {
	return types.EnvironmentSnapshot{}, nil
}
