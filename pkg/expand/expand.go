// Package expand turns a command-level configuration into the sequence of
// per-package configurations the source dispatcher consumes. Entries
// ending in .config are list-documents; each of their package specs
// becomes a deep-copied configuration with the spec's overrides applied.
package expand

import (
	"path/filepath"
	"strings"

	"github.com/chocoforge/choco/pkg/config"
	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/logging"
	"github.com/chocoforge/choco/pkg/types"
	"github.com/chocoforge/choco/pkg/xmlservice"
)

var log = logging.GetLogger("expand")

// ListDocumentSuffix marks a package-names entry as a list-document
// reference.
const ListDocumentSuffix = ".config"

// Expander expands command configurations. KnownSourceType lets a
// list-document's source attribute select a source kind by name.
type Expander struct {
	fs              types.FS
	knownSourceType func(name string) bool
}

// New creates an Expander. knownSourceType may be nil, in which case no
// spec source string is treated as a source kind.
func New(fsys types.FS, knownSourceType func(name string) bool) *Expander {
	if knownSourceType == nil {
		knownSourceType = func(string) bool { return false }
	}
	return &Expander{fs: fsys, knownSourceType: knownSourceType}
}

// Yield receives one per-package configuration. Returning an error stops
// the expansion; the error propagates to the caller of Expand.
type Yield func(cfg *config.Configuration) error

// Recorder receives the error result for a list-document that could not
// be used, keyed by the document's lowercased filename.
type Recorder func(key string, result *types.PackageResult)

// Expand enumerates the per-package configurations for cfg. Results for
// unreadable list-documents go to the recorder under the document
// filename. The input configuration is never mutated; the final yielded
// configuration is a copy with the list-document entries stripped from
// PackageNames.
//
// List-documents are only allowed for install; upgrade and uninstall
// reject them with a fatal error before any expansion output.
func (e *Expander) Expand(cfg *config.Configuration, record Recorder, yield Yield) error {
	names := splitNames(cfg.PackageNames)

	var remainder []string
	var documents []string
	for _, name := range names {
		if strings.HasSuffix(strings.ToLower(name), ListDocumentSuffix) {
			documents = append(documents, name)
		} else {
			remainder = append(remainder, name)
		}
	}

	if len(documents) > 0 && cfg.CommandName != "install" {
		return errors.Newf(errors.ErrListDocNotAllowed,
			"Package list files are only supported with install; remove %s from the %s command",
			strings.Join(documents, ", "), cfg.CommandName)
	}

	deprecationWarned := false
	for _, document := range documents {
		specs, err := e.loadDocument(document, record)
		if err != nil {
			// Recorded in the aggregate; move on to the next document.
			continue
		}
		for _, spec := range specs {
			if spec.Disabled {
				log.Debug().Str("id", spec.ID).Str("document", document).Msg("Skipping disabled package entry")
				continue
			}
			perPackage := cfg.Clone()
			applySpec(perPackage, spec, e.knownSourceType)
			if perPackage.AllowMultipleVersions && !deprecationWarned {
				log.Warn().Msg("allowMultipleVersions is deprecated and will be removed in a future release")
				deprecationWarned = true
			}
			if err := yield(perPackage); err != nil {
				return err
			}
		}
	}

	final := cfg.Clone()
	final.PackageNames = strings.Join(remainder, ";")
	return yield(final)
}

// loadDocument locates and parses one list-document, recording an error
// result under the document's filename when it cannot be used.
func (e *Expander) loadDocument(document string, record Recorder) ([]xmlservice.PackageSpec, error) {
	path := document
	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err == nil {
			path = abs
		}
	}

	recordFailure := func(err error) {
		name := filepath.Base(document)
		result := types.NewPackageResult(name, "")
		result.RecordError(err.Error())
		record(strings.ToLower(name), result)
	}

	if !filesystem.FileExists(e.fs, path) {
		err := errors.Newf(errors.ErrListDocNotFound, "Could not find '%s' in the location specified", document)
		recordFailure(err)
		return nil, err
	}

	data, err := e.fs.ReadFile(path)
	if err != nil {
		wrapped := errors.Wrapf(err, errors.ErrListDocParse, "cannot read '%s'", document)
		recordFailure(wrapped)
		return nil, wrapped
	}

	specs, err := xmlservice.DeserializePackagesConfig(data)
	if err != nil {
		recordFailure(err)
		return nil, err
	}
	return specs, nil
}

func splitNames(packageNames string) []string {
	var names []string
	for _, name := range strings.Split(packageNames, ";") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
