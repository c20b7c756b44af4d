package report

import (
	_ "embed"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Summary styling is defined in styles.yaml so colors can be retuned
// without touching rendering code. Colors adapt to light and dark
// terminal themes; on a non-terminal every style degrades to plain text.

//go:embed styles.yaml
var stylesYAML []byte

type colorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

type styleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
}

type stylesConfig struct {
	Colors map[string]colorDef `yaml:"colors"`
	Styles map[string]styleDef `yaml:"styles"`
}

var (
	titleStyle   lipgloss.Style
	mutedStyle   lipgloss.Style
	successStyle *pterm.Style
	warningStyle *pterm.Style
	errorStyle   *pterm.Style
	rebootStyle  *pterm.Style
)

func init() {
	var cfg stylesConfig
	if err := yaml.Unmarshal(stylesYAML, &cfg); err != nil {
		// The embedded document is part of the build; an unparsable one
		// is a programming error.
		panic("report: invalid embedded styles.yaml: " + err.Error())
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	build := func(name string) lipgloss.Style {
		style := lipgloss.NewStyle()
		def, ok := cfg.Styles[name]
		if !ok {
			return style
		}
		if def.Bold {
			style = style.Bold(true)
		}
		if color, ok := colors[def.Foreground]; ok {
			style = style.Foreground(color)
		}
		return style
	}

	titleStyle = build("title")
	mutedStyle = build("muted")

	successStyle = pterm.NewStyle(pterm.FgGreen)
	warningStyle = pterm.NewStyle(pterm.FgYellow)
	errorStyle = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	rebootStyle = pterm.NewStyle(pterm.FgMagenta)

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
		pterm.DisableColor()
	}
}
