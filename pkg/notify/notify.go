// Package notify emits occasional promotional messages on regular
// output. Both the trigger and the message choice come from an injected
// randomness source so tests can force either outcome.
package notify

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/chocoforge/choco/pkg/config"
)

// messages is the fixed promotional message list.
var messages = []string{
	"Did you know the makers of this tool offer a commercial edition with runtime protection and private repositories?",
	"Tired of babysitting installs? The licensed edition adds background mode and self-service installations.",
	"Package builder and internalizer features are available in the commercial editions.",
}

// Notifier decides whether a run shows a promotional message.
type Notifier struct {
	rng *rand.Rand
	out io.Writer
}

// New creates a Notifier over the given randomness source, writing to
// stdout.
func New(rng *rand.Rand) *Notifier {
	return &Notifier{rng: rng, out: os.Stdout}
}

// NewTo creates a Notifier writing to the given writer; tests use this.
func NewTo(rng *rand.Rand, out io.Writer) *Notifier {
	return &Notifier{rng: rng, out: out}
}

// Notify emits a message on roughly one run in ten, and only for
// unlicensed runs with regular output. A non-empty custom message takes
// the place of the random pick.
func (n *Notifier) Notify(cfg *config.Configuration, custom string) {
	if cfg.Information.IsLicensed || !cfg.RegularOutput {
		return
	}
	if n.rng.Intn(10)+1 != 3 {
		return
	}

	message := custom
	if message == "" {
		index := n.rng.Intn(len(messages))
		if index >= len(messages) {
			index = len(messages) - 1
		}
		message = messages[index]
	}
	fmt.Fprintln(n.out, message)
}
