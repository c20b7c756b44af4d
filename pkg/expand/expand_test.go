package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chocoforge/choco/pkg/config"
	chocoerrors "github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/testutil"
	"github.com/chocoforge/choco/pkg/types"
)

const listDocument = `<?xml version="1.0" encoding="utf-8"?>
<packages>
  <package id="a" />
  <package id="b" disabled="true" />
  <package id="c" source="internal" />
</packages>`

func baseConfig() *config.Configuration {
	cfg := config.Default()
	cfg.CommandName = "install"
	cfg.Sources = "/feed"
	return cfg
}

func collect(t *testing.T, e *Expander, cfg *config.Configuration) ([]*config.Configuration, map[string]*types.PackageResult) {
	t.Helper()
	errored := map[string]*types.PackageResult{}
	var yielded []*config.Configuration
	err := e.Expand(cfg, func(key string, r *types.PackageResult) { errored[key] = r },
		func(perPackage *config.Configuration) error {
			yielded = append(yielded, perPackage)
			return nil
		})
	require.NoError(t, err)
	return yielded, errored
}

func TestExpandListDocumentWithDisabledEntry(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/work/packages.config", []byte(listDocument), 0644))

	e := New(fs, func(name string) bool { return name == "internal" })
	cfg := baseConfig()
	cfg.PackageNames = "/work/packages.config"

	yielded, errored := collect(t, e, cfg)

	require.Len(t, yielded, 3)
	assert.Empty(t, errored)

	assert.Equal(t, "a", yielded[0].PackageNames)
	assert.Empty(t, yielded[0].SourceType)

	assert.Equal(t, "c", yielded[1].PackageNames)
	assert.Equal(t, "internal", yielded[1].SourceType)
	assert.Equal(t, "internal", yielded[1].Sources)

	// The bare remainder comes last with the document stripped.
	assert.Equal(t, "", yielded[2].PackageNames)
}

func TestExpandMixedNamesAndDocument(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/work/packages.config", []byte(listDocument), 0644))

	e := New(fs, nil)
	cfg := baseConfig()
	cfg.PackageNames = "git;/work/packages.config;vim"

	yielded, _ := collect(t, e, cfg)

	require.Len(t, yielded, 3)
	assert.Equal(t, "git;vim", yielded[2].PackageNames)
}

func TestExpandMissingDocumentRecordsError(t *testing.T) {
	fs := testutil.NewMemoryFS()
	e := New(fs, nil)
	cfg := baseConfig()
	cfg.PackageNames = "/nope/packages.config;git"

	yielded, errored := collect(t, e, cfg)

	require.Len(t, yielded, 1)
	assert.Equal(t, "git", yielded[0].PackageNames)

	result, ok := errored["packages.config"]
	require.True(t, ok)
	assert.False(t, result.Success)
	assert.Contains(t, result.FirstMessage(types.MessageError), "Could not find")
}

func TestExpandRejectsDocumentOutsideInstall(t *testing.T) {
	for _, command := range []string{"upgrade", "uninstall"} {
		t.Run(command, func(t *testing.T) {
			fs := testutil.NewMemoryFS()
			e := New(fs, nil)
			cfg := baseConfig()
			cfg.CommandName = command
			cfg.PackageNames = "packages.config"

			err := e.Expand(cfg, func(string, *types.PackageResult) {}, func(*config.Configuration) error { return nil })
			require.Error(t, err)
			assert.True(t, chocoerrors.IsCode(err, chocoerrors.ErrListDocNotAllowed))
		})
	}
}

func TestExpandStopsWhenYieldErrors(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/work/packages.config", []byte(listDocument), 0644))

	e := New(fs, nil)
	cfg := baseConfig()
	cfg.PackageNames = "/work/packages.config"

	calls := 0
	err := e.Expand(cfg, func(string, *types.PackageResult) {}, func(*config.Configuration) error {
		calls++
		return chocoerrors.New(chocoerrors.ErrStopOnFailure, "stop")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExpandIsIdempotent(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/work/packages.config", []byte(listDocument), 0644))

	e := New(fs, func(name string) bool { return name == "internal" })
	cfg := baseConfig()
	cfg.PackageNames = "git;/work/packages.config"
	original := *cfg

	first, _ := collect(t, e, cfg)
	second, _ := collect(t, e, cfg)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, *first[i], *second[i])
	}

	// Expansion never mutates the command-level configuration.
	assert.Equal(t, original, *cfg)
}

func TestExpandPerPackageMutationDoesNotPropagate(t *testing.T) {
	fs := testutil.NewMemoryFS()
	e := New(fs, nil)
	cfg := baseConfig()
	cfg.PackageNames = "git"

	err := e.Expand(cfg, func(string, *types.PackageResult) {}, func(perPackage *config.Configuration) error {
		perPackage.Features.StopOnFirstPackageFailure = true
		perPackage.PackageNames = "mutated"
		return nil
	})
	require.NoError(t, err)
	assert.False(t, cfg.Features.StopOnFirstPackageFailure)
	assert.Equal(t, "git", cfg.PackageNames)
}
