package coordinator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chocoerrors "github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/types"
)

func TestOutdatedEnhancedExitCode(t *testing.T) {
	h := newHarness(t)
	h.runner.results = []*types.PackageResult{h.installedResult("foo", "2.0.0")}

	cfg := testConfig()
	cfg.Features.UseEnhancedExitCodes = true

	outdated, err := h.coord.Outdated(cfg)
	require.NoError(t, err)
	assert.Len(t, outdated, 1)
	assert.Equal(t, chocoerrors.ExitOutdatedFound, h.proc.ExitCode())
}

func TestOutdatedWithoutEnhancedExitCodes(t *testing.T) {
	h := newHarness(t)
	h.runner.results = []*types.PackageResult{h.installedResult("foo", "2.0.0")}

	_, err := h.coord.Outdated(testConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, h.proc.ExitCode())
}

func TestOutdatedNothingFound(t *testing.T) {
	h := newHarness(t)

	cfg := testConfig()
	cfg.Features.UseEnhancedExitCodes = true

	outdated, err := h.coord.Outdated(cfg)
	require.NoError(t, err)
	assert.Empty(t, outdated)
	assert.Equal(t, 0, h.proc.ExitCode())
}

func TestNoopInstallSkipsPipeline(t *testing.T) {
	h := newHarness(t)
	h.seedPackageDir(t, "foo")
	h.runner.results = []*types.PackageResult{h.installedResult("foo", "1.0.0")}

	cfg := testConfig()
	cfg.Noop = true

	_, err := h.coord.Install(cfg)
	require.NoError(t, err)

	// No pending marker, no durable record: nothing really ran.
	info := h.infoSvc.Get(types.PackageMetadata{ID: "foo", Version: "1.0.0"})
	assert.Nil(t, info.FilesSnapshot)
}

func TestListDelegatesToRunner(t *testing.T) {
	h := newHarness(t)
	h.runner.results = []*types.PackageResult{
		h.installedResult("foo", "1.0.0"),
		h.installedResult("bar", "2.0.0"),
	}

	results := h.coord.List(testConfig())
	assert.Len(t, results, 2)
	assert.Equal(t, 2, h.coord.Count(testConfig()))
}

func TestResultSetToleratesConcurrentReaders(t *testing.T) {
	set := NewResultSet()

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				_ = set.Len()
				_ = set.Get("pkg-50")
				_ = set.Snapshot()
			}
		}
	}()

	for i := 0; i < 100; i++ {
		r := types.NewPackageResult("pkg", "1.0.0")
		set.Record(r.LowerName()+string(rune('a'+i%26)), r)
	}
	close(done)
	wg.Wait()

	assert.Equal(t, 26, set.Len())
	assert.Len(t, set.Ordered(), 26)
}

func TestResultSetPreservesInsertOrder(t *testing.T) {
	set := NewResultSet()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		set.Record(name, types.NewPackageResult(name, "1.0.0"))
	}

	ordered := set.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, "zeta", ordered[0].Name)
	assert.Equal(t, "alpha", ordered[1].Name)
	assert.Equal(t, "mid", ordered[2].Name)
}
