// Package sources holds the source-runner registry and the runners the
// repo ships: the normal folder-feed runner and the external catalog
// stubs. The registry is immutable after construction; unknown source
// kinds resolve to a warning no-op runner.
package sources

import (
	"strings"

	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/types"
)

var log = logging.GetLogger("sources")

// Dispatcher selects the source runner matching a configuration's source
// kind.
type Dispatcher struct {
	runners []types.SourceRunner
}

// NewDispatcher builds an immutable registry from the given runners.
func NewDispatcher(runners ...types.SourceRunner) *Dispatcher {
	return &Dispatcher{runners: runners}
}

// Resolve returns the runner whose declared type equals sourceType or
// equals sourceType + "s", tolerating singular feature names. Unknown
// source kinds log a warning and resolve to a no-op runner so callers
// receive zero values rather than errors.
func (d *Dispatcher) Resolve(sourceType string) types.SourceRunner {
	want := strings.ToLower(strings.TrimSpace(sourceType))
	if want == "" {
		want = NormalSourceType
	}
	for _, runner := range d.runners {
		declared := strings.ToLower(runner.SourceType())
		if declared == want || declared == want+"s" {
			return runner
		}
	}
	log.Warn().Str("sourceType", sourceType).Msg("No source runner registered for source type; operation is a no-op")
	return noopRunner{sourceType: sourceType}
}

// IsKnown reports whether sourceType resolves to a registered runner,
// with the same singular/plural tolerance as Resolve.
func (d *Dispatcher) IsKnown(sourceType string) bool {
	want := strings.ToLower(strings.TrimSpace(sourceType))
	if want == "" {
		return false
	}
	for _, runner := range d.runners {
		declared := strings.ToLower(runner.SourceType())
		if declared == want || declared == want+"s" {
			return true
		}
	}
	return false
}
