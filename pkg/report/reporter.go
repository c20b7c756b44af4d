// Package report aggregates per-package outcomes into the command
// summary and the final process exit code.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/types"
)

// enumerateSuccessThreshold is the result count at or above which
// successes are listed by name.
const enumerateSuccessThreshold = 5

// Reporter renders command summaries.
type Reporter struct {
	out io.Writer
}

// New creates a Reporter writing to stdout.
func New() *Reporter {
	return &Reporter{out: os.Stdout}
}

// NewTo creates a Reporter writing to the given writer; tests use this.
func NewTo(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// Report writes the summary for one command and returns the failure
// count so the caller can set the process exit code to 1 when it is
// still 0.
func (r *Reporter) Report(cfg *config.Configuration, results map[string]*types.PackageResult) int {
	ordered := orderedResults(results)

	var successes, failures, warnings, reboots []*types.PackageResult
	for _, result := range ordered {
		if result.Success {
			successes = append(successes, result)
		} else {
			failures = append(failures, result)
		}
		if result.Warning() {
			warnings = append(warnings, result)
		}
		if errors.IsRebootExitCode(result.ExitCode) {
			reboots = append(reboots, result)
		}
	}

	if !cfg.RegularOutput {
		r.reportMachineReadable(ordered)
		return len(failures)
	}

	fmt.Fprintln(r.out, titleStyle.Render(fmt.Sprintf(
		"Chocolatey %s %d/%d packages.", CommandVerb(cfg.CommandName), len(successes), len(ordered))))
	if len(failures) > 0 {
		fmt.Fprintln(r.out, mutedStyle.Render(fmt.Sprintf(
			" %d packages failed.", len(failures))))
	}
	fmt.Fprintln(r.out, mutedStyle.Render(" See the log for details."))

	if len(ordered) >= enumerateSuccessThreshold && len(successes) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, successStyle.Sprint("Installed:"))
		for _, result := range successes {
			fmt.Fprintf(r.out, " - %s\n", result.Identity())
		}
	}

	if len(warnings) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, warningStyle.Sprint("Warnings:"))
		for _, result := range warnings {
			fmt.Fprintf(r.out, " - %s - %s\n", result.Identity(), result.FirstMessage(types.MessageWarning))
		}
	}

	if len(reboots) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, rebootStyle.Sprint("Packages requiring reboot:"))
		for _, result := range reboots {
			fmt.Fprintf(r.out, " - %s (exit code %d)\n", result.Identity(), result.ExitCode)
		}
		fmt.Fprintln(r.out, mutedStyle.Render(
			"The recent package changes indicate a reboot is necessary.\n Please reboot at your earliest convenience."))
	}

	if len(failures) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, errorStyle.Sprint("Failures:"))
		for _, result := range failures {
			fmt.Fprintf(r.out, " - %s (exited %d) - %s\n",
				result.Identity(), result.ExitCode, result.FirstMessage(types.MessageError))
		}
	}

	return len(failures)
}

// reportMachineReadable emits one pipe-delimited line per package.
func (r *Reporter) reportMachineReadable(ordered []*types.PackageResult) {
	for _, result := range ordered {
		status := "installed"
		switch {
		case !result.Success:
			status = "failed"
		case result.Inconclusive:
			status = "skipped"
		}
		fmt.Fprintf(r.out, "%s|%s|%s\n", result.Name, result.Metadata.Version, status)
	}
}

// orderedResults returns the results sorted by lowercased name; the map
// is insert-ordered by the coordinator but map iteration is not.
func orderedResults(results map[string]*types.PackageResult) []*types.PackageResult {
	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	ordered := make([]*types.PackageResult, 0, len(keys))
	for _, key := range keys {
		ordered = append(ordered, results[key])
	}
	return ordered
}

// CommandVerb maps a command name to its past-tense verb for the summary
// banner.
func CommandVerb(commandName string) string {
	switch strings.ToLower(commandName) {
	case "install":
		return "installed"
	case "upgrade":
		return "upgraded"
	case "uninstall":
		return "uninstalled"
	default:
		return commandName + "ed"
	}
}
