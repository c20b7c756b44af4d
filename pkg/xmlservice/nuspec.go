package xmlservice

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/chocoforge/choco/pkg/errors"
)

// NuspecMetadata is the subset of a package manifest the orchestrator
// needs to identify a materialized package.
type NuspecMetadata struct {
	ID      string
	Version string
	Title   string
	Summary string
}

// ReadNuspec parses a package manifest. The manifest may carry an XML
// namespace; element matching ignores it.
func ReadNuspec(data []byte) (NuspecMetadata, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return NuspecMetadata{}, errors.Wrap(err, errors.ErrConfigParse, "invalid package manifest")
	}

	root := doc.Root()
	if root == nil || localName(root.Tag) != "package" {
		return NuspecMetadata{}, errors.New(errors.ErrConfigParse, "package manifest has no <package> root element")
	}

	metadata := findChild(root, "metadata")
	if metadata == nil {
		return NuspecMetadata{}, errors.New(errors.ErrConfigParse, "package manifest has no <metadata> element")
	}

	return NuspecMetadata{
		ID:      childText(metadata, "id"),
		Version: childText(metadata, "version"),
		Title:   childText(metadata, "title"),
		Summary: childText(metadata, "summary"),
	}, nil
}

func localName(tag string) string {
	if i := strings.LastIndex(tag, ":"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

func findChild(el *etree.Element, name string) *etree.Element {
	for _, child := range el.ChildElements() {
		if localName(child.Tag) == name {
			return child
		}
	}
	return nil
}

func childText(el *etree.Element, name string) string {
	if child := findChild(el, name); child != nil {
		return strings.TrimSpace(child.Text())
	}
	return ""
}
