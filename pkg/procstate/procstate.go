// Package procstate models the process-wide mutable state the
// orchestrator touches: environment variables, which child processes
// inherit, and the final exit code. Injecting it keeps those writes
// observable in tests.
package procstate

import (
	"os"
	"sync"

	"github.com/chocoforge/choco/pkg/types"
)

type osState struct {
	mu       sync.Mutex
	exitCode int
}

// NewOS returns the real process state backed by os.Setenv/Getenv.
func NewOS() types.ProcessState {
	return &osState{}
}

func (s *osState) GetEnv(name string) string {
	return os.Getenv(name)
}

func (s *osState) SetEnv(name, value string) {
	_ = os.Setenv(name, value)
}

func (s *osState) ExitCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitCode
}

func (s *osState) SetExitCode(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exitCode = code
}

// Fake is an in-memory ProcessState for tests.
type Fake struct {
	mu       sync.Mutex
	Env      map[string]string
	exitCode int
}

// NewFake returns an empty fake process state.
func NewFake() *Fake {
	return &Fake{Env: map[string]string{}}
}

func (f *Fake) GetEnv(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Env[name]
}

func (f *Fake) SetEnv(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Env[name] = value
}

func (f *Fake) ExitCode() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exitCode
}

func (f *Fake) SetExitCode(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exitCode = code
}
