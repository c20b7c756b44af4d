// Package registry implements the installed-program and environment
// readers. Real reads only happen on Windows; every other platform gets
// empty snapshots so diffs are no-ops.
package registry

import "github.com/chocoforge/choco/pkg/types"

// UserScope and MachineScope are the parentKey values used in
// environment snapshots.
const (
	UserScope    = "HKEY_CURRENT_USER"
	MachineScope = "HKEY_LOCAL_MACHINE"
)

// New returns the RegistryService for this platform.
func New() types.RegistryService {
	return newPlatform()
}
