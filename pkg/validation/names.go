// Package validation rejects package-name input that is really a path or
// a file before any expansion runs, with guidance on the correct
// command.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/types"
)

// Extensions reserved for package archives and manifests.
const (
	PackageExtension  = ".nupkg"
	ManifestExtension = ".nuspec"
)

// Validator checks package-name tokens.
type Validator struct {
	fs types.FS
}

// New creates a name Validator.
func New(fsys types.FS) *Validator {
	return &Validator{fs: fsys}
}

// Validate checks every ';'-separated token in packageNames. Tokens that
// point at a package archive get an error reconstructing the intended
// install command; manifest tokens get told to pack first.
func (v *Validator) Validate(packageNames string) error {
	for _, token := range strings.Split(packageNames, ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		lower := strings.ToLower(token)

		if strings.HasSuffix(lower, ManifestExtension) {
			return errors.Newf(errors.ErrManifestAsPackage,
				"Package name cannot point directly to a package manifest file. Please create a package by running 'choco pack' on the .nuspec file first.")
		}

		if strings.HasSuffix(lower, PackageExtension) &&
			(filesystem.IsLocalOrUNCPath(token) || filesystem.FileExists(v.fs, token)) {
			return errors.Newf(errors.ErrPathAsPackage,
				"Package name cannot be a path to a file on a remote, or local file system.\n\n%s", usageExample(token))
		}
	}
	return nil
}

// usageExample reconstructs the command the user probably wanted from the
// archive filename.
func usageExample(token string) string {
	dir := filepath.Dir(token)
	base := strings.TrimSuffix(filepath.Base(token), filepath.Ext(token))
	name, version := SplitNameVersion(base)

	example := fmt.Sprintf("choco install %s --source=\"%s\"", name, dir)
	if version != "" {
		example = fmt.Sprintf("choco install %s --version=\"%s\" --source=\"%s\"", name, version, dir)
	}
	return "To install a local, or remote file, you may use:\n  " + example
}

// SplitNameVersion separates a package filename base into name and
// version by progressive dot-splitting: the version starts at the first
// segment that begins a parsable version tail.
func SplitNameVersion(base string) (name, version string) {
	segments := strings.Split(base, ".")
	for i := 1; i < len(segments); i++ {
		if isVersionTail(segments[i:]) {
			return strings.Join(segments[:i], "."), strings.Join(segments[i:], ".")
		}
	}
	return base, ""
}

// isVersionTail reports whether the segments form a version: numeric
// segments with an optional prerelease suffix on the last.
func isVersionTail(segments []string) bool {
	for i, segment := range segments {
		if i == len(segments)-1 {
			segment, _, _ = strings.Cut(segment, "-")
		}
		if !isDigits(segment) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
