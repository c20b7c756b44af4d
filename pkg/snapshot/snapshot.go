// Package snapshot captures and diffs system state around a package
// operation: installed-program registry entries and environment
// variables. The diffs are pure set operations; callers own the before
// and after snapshots.
package snapshot

import (
	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/types"
)

var log = logging.GetLogger("snapshot")

// Snapshotter reads state through the registry service and exposes the
// diff operations.
type Snapshotter struct {
	registry types.RegistryService
}

// New creates a Snapshotter over the given registry service.
func New(registry types.RegistryService) *Snapshotter {
	return &Snapshotter{registry: registry}
}

// SnapshotInstallers captures the current installed-program entries.
// Read failures degrade to an empty snapshot.
func (s *Snapshotter) SnapshotInstallers() types.RegistrySnapshot {
	snap, err := s.registry.GetInstallerKeys()
	if err != nil {
		log.Warn().Err(err).Msg("Cannot read installer keys")
		return types.RegistrySnapshot{}
	}
	return snap
}

// SnapshotEnv captures user and machine environment variables.
func (s *Snapshotter) SnapshotEnv() types.EnvironmentSnapshot {
	snap, err := s.registry.GetEnvironmentValues()
	if err != nil {
		log.Warn().Err(err).Msg("Cannot read environment values")
		return types.EnvironmentSnapshot{}
	}
	return snap
}

// DiffInstallers returns the installer keys present in after but not in
// before, keyed by registry key path. Order follows after.
func DiffInstallers(before, after types.RegistrySnapshot) types.RegistrySnapshot {
	seen := make(map[string]struct{}, len(before.Keys))
	for _, k := range before.Keys {
		seen[k.KeyPath] = struct{}{}
	}
	var diff types.RegistrySnapshot
	for _, k := range after.Keys {
		if _, ok := seen[k.KeyPath]; !ok {
			diff.Keys = append(diff.Keys, k)
		}
	}
	return diff
}

// DiffEnv returns the environment values added or changed, and those
// removed, between two snapshots. Identity is (parentKey, name); a value
// difference counts as changed.
func DiffEnv(before, after types.EnvironmentSnapshot) (changed, removed []types.EnvironmentValue) {
	prior := make(map[string]types.EnvironmentValue, len(before.Values))
	for _, v := range before.Values {
		prior[v.Key()] = v
	}
	current := make(map[string]struct{}, len(after.Values))
	for _, v := range after.Values {
		current[v.Key()] = struct{}{}
		old, ok := prior[v.Key()]
		if !ok || old.Value != v.Value {
			changed = append(changed, v)
		}
	}
	for _, v := range before.Values {
		if _, ok := current[v.Key()]; !ok {
			removed = append(removed, v)
		}
	}
	return changed, removed
}

// LogEnvChanges reports environment differences at info level. Values are
// redacted unless the log-environment-values feature is set; names alone
// are enough to spot a package touching PATH.
func LogEnvChanges(cfg *config.Configuration, changed, removed []types.EnvironmentValue) {
	for _, v := range changed {
		if cfg.Features.LogEnvironmentValues {
			log.Info().Str("scope", v.ParentKey).Str("name", v.Name).Str("value", v.Value).Msg("Environment value set")
		} else {
			log.Info().Str("scope", v.ParentKey).Str("name", v.Name).Msg("Environment value set (value redacted)")
		}
	}
	for _, v := range removed {
		log.Info().Str("scope", v.ParentKey).Str("name", v.Name).Msg("Environment value removed")
	}
}
