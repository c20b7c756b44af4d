// Package xmlservice deserializes packages.config list-documents into
// ordered PackageSpec records. Unknown attributes are ignored so older
// documents keep working.
package xmlservice

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/chocoforge/choco/pkg/errors"
)

// PackageSpec is one <package> record in a list-document, carrying the id
// and per-package overrides.
type PackageSpec struct {
	ID      string
	Version string
	Source  string

	InstallArguments  string
	PackageParameters string

	User         string
	Password     string
	Cert         string
	CertPassword string

	CacheLocation string

	DownloadChecksum       string
	DownloadChecksumType   string
	DownloadChecksum64     string
	DownloadChecksumType64 string

	// ExecutionTimeout of -1 means "not specified".
	ExecutionTimeout int

	Disabled bool

	Prerelease            bool
	OverrideArguments     bool
	Force                 bool
	ForceX86              bool
	AllowDowngrade        bool
	AllowMultipleVersions bool
	IgnoreDependencies    bool
	SkipAutomationScripts bool
	PinPackage            bool

	ApplyInstallArgumentsToDependencies  bool
	ApplyPackageParametersToDependencies bool

	RequireChecksums bool
	Confirm          bool

	UseSystemPowershell            bool
	IgnoreDetectedReboot           bool
	DisableRepositoryOptimizations bool
}

// DeserializePackagesConfig parses a packages.config document. Order of
// <package> elements is preserved.
func DeserializePackagesConfig(data []byte) ([]PackageSpec, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrListDocParse, "invalid packages.config document")
	}

	root := doc.SelectElement("packages")
	if root == nil {
		return nil, errors.New(errors.ErrListDocParse, "packages.config has no <packages> root element")
	}

	var specs []PackageSpec
	for _, el := range root.SelectElements("package") {
		spec := PackageSpec{ExecutionTimeout: -1}
		spec.ID = attr(el, "id")
		spec.Version = attr(el, "version")
		spec.Source = attr(el, "source")
		spec.InstallArguments = attr(el, "installArguments")
		spec.PackageParameters = attr(el, "packageParameters")
		spec.User = attr(el, "user")
		spec.Password = attr(el, "password")
		spec.Cert = attr(el, "cert")
		spec.CertPassword = attr(el, "certPassword")
		spec.CacheLocation = attr(el, "cacheLocation")
		spec.DownloadChecksum = attr(el, "downloadChecksum")
		spec.DownloadChecksumType = attr(el, "downloadChecksumType")
		spec.DownloadChecksum64 = attr(el, "downloadChecksum64")
		spec.DownloadChecksumType64 = attr(el, "downloadChecksumType64")
		if raw := attr(el, "executionTimeout"); raw != "" {
			if timeout, err := strconv.Atoi(raw); err == nil {
				spec.ExecutionTimeout = timeout
			}
		}
		spec.Disabled = boolAttr(el, "disabled")
		spec.Prerelease = boolAttr(el, "prerelease")
		spec.OverrideArguments = boolAttr(el, "overrideArguments")
		spec.Force = boolAttr(el, "force")
		spec.ForceX86 = boolAttr(el, "forceX86")
		spec.AllowDowngrade = boolAttr(el, "allowDowngrade")
		spec.AllowMultipleVersions = boolAttr(el, "allowMultipleVersions")
		spec.IgnoreDependencies = boolAttr(el, "ignoreDependencies")
		spec.ApplyInstallArgumentsToDependencies = boolAttr(el, "applyInstallArgumentsToDependencies")
		spec.ApplyPackageParametersToDependencies = boolAttr(el, "applyPackageParametersToDependencies")
		spec.SkipAutomationScripts = boolAttr(el, "skipAutomationScripts")
		spec.PinPackage = boolAttr(el, "pinPackage")
		spec.RequireChecksums = boolAttr(el, "requireChecksums")
		spec.Confirm = boolAttr(el, "confirm")
		spec.UseSystemPowershell = boolAttr(el, "useSystemPowershell")
		spec.IgnoreDetectedReboot = boolAttr(el, "ignoreDetectedReboot")
		spec.DisableRepositoryOptimizations = boolAttr(el, "disableRepositoryOptimizations")
		specs = append(specs, spec)
	}
	return specs, nil
}

func attr(el *etree.Element, name string) string {
	return strings.TrimSpace(el.SelectAttrValue(name, ""))
}

func boolAttr(el *etree.Element, name string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(el.SelectAttrValue(name, "false")))
	return err == nil && value
}
