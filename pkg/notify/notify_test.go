package notify

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chocoforge/choco/pkg/config"
)

func runs(n *Notifier, cfg *config.Configuration, count int, custom string) int {
	hits := 0
	for i := 0; i < count; i++ {
		var buf bytes.Buffer
		n.out = &buf
		n.Notify(cfg, custom)
		if buf.Len() > 0 {
			hits++
		}
	}
	return hits
}

func TestNotifyTriggersAboutOneInTen(t *testing.T) {
	n := NewTo(rand.New(rand.NewSource(42)), &bytes.Buffer{})
	cfg := config.Default()

	hits := runs(n, cfg, 1000, "")
	assert.Greater(t, hits, 50)
	assert.Less(t, hits, 200)
}

func TestNotifySilentWhenLicensed(t *testing.T) {
	n := NewTo(rand.New(rand.NewSource(42)), &bytes.Buffer{})
	cfg := config.Default()
	cfg.Information.IsLicensed = true

	assert.Zero(t, runs(n, cfg, 1000, ""))
}

func TestNotifySilentOnLimitedOutput(t *testing.T) {
	n := NewTo(rand.New(rand.NewSource(42)), &bytes.Buffer{})
	cfg := config.Default()
	cfg.RegularOutput = false

	assert.Zero(t, runs(n, cfg, 1000, ""))
}

func TestNotifyUsesCustomMessage(t *testing.T) {
	cfg := config.Default()
	// Run until the trigger fires once; the emitted text must be the
	// caller's message, not one from the stock list.
	n := NewTo(rand.New(rand.NewSource(7)), &bytes.Buffer{})
	for i := 0; i < 1000; i++ {
		var buf bytes.Buffer
		n.out = &buf
		n.Notify(cfg, "custom promo line")
		if buf.Len() > 0 {
			assert.Equal(t, "custom promo line", strings.TrimSpace(buf.String()))
			return
		}
	}
	t.Fatal("notifier never triggered in 1000 runs")
}

func TestNotifyPicksFromStockList(t *testing.T) {
	cfg := config.Default()
	n := NewTo(rand.New(rand.NewSource(11)), &bytes.Buffer{})
	for i := 0; i < 1000; i++ {
		var buf bytes.Buffer
		n.out = &buf
		n.Notify(cfg, "")
		if buf.Len() > 0 {
			assert.Contains(t, messages, strings.TrimSpace(buf.String()))
			return
		}
	}
	t.Fatal("notifier never triggered in 1000 runs")
}
