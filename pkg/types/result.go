package types

import "strings"

// MessageKind classifies a message attached to a package result.
type MessageKind string

const (
	MessageInfo    MessageKind = "info"
	MessageNote    MessageKind = "note"
	MessageWarning MessageKind = "warning"
	MessageError   MessageKind = "error"
)

// ResultMessage is one (kind, text) entry on a package result. Order of
// messages is the order they were recorded.
type ResultMessage struct {
	Kind MessageKind
	Text string
}

// PackageMetadata identifies one concrete package version.
type PackageMetadata struct {
	ID      string
	Version string
	Title   string
	Summary string
}

// PackageResult is the outcome record for one package operation.
type PackageResult struct {
	Name            string
	Metadata        PackageMetadata
	InstallLocation string
	Source          string
	ExitCode        int
	Success         bool
	Inconclusive    bool

	Messages []ResultMessage
}

// NewPackageResult creates a result for the named package, initially
// successful.
func NewPackageResult(name, version string) *PackageResult {
	return &PackageResult{
		Name:     name,
		Metadata: PackageMetadata{ID: name, Version: version},
		Success:  true,
	}
}

// RecordMessage appends a message of the given kind. An error message also
// marks the result unsuccessful.
func (r *PackageResult) RecordMessage(kind MessageKind, text string) {
	r.Messages = append(r.Messages, ResultMessage{Kind: kind, Text: text})
	if kind == MessageError {
		r.Success = false
	}
}

// RecordError appends an error message and fails the result.
func (r *PackageResult) RecordError(text string) {
	r.RecordMessage(MessageError, text)
}

// RecordWarning appends a warning message without failing the result.
func (r *PackageResult) RecordWarning(text string) {
	r.RecordMessage(MessageWarning, text)
}

// Warning reports whether any warning message was recorded.
func (r *PackageResult) Warning() bool {
	for _, m := range r.Messages {
		if m.Kind == MessageWarning {
			return true
		}
	}
	return false
}

// FirstMessage returns the text of the first message of the given kind, or
// the empty string.
func (r *PackageResult) FirstMessage(kind MessageKind) string {
	for _, m := range r.Messages {
		if m.Kind == kind {
			return m.Text
		}
	}
	return ""
}

// Identity returns "name v<version>" for display.
func (r *PackageResult) Identity() string {
	version := r.Metadata.Version
	if version == "" {
		return r.Name
	}
	return r.Name + " v" + version
}

// LowerName returns the package name lowercased, the canonical key for
// result aggregates and the pending-lock map.
func (r *PackageResult) LowerName() string {
	return strings.ToLower(r.Name)
}
