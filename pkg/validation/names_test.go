package validation

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chocoerrors "github.com/chocoforge/choco/pkg/errors"
	"github.com/chocoforge/choco/pkg/testutil"
)

func TestValidateAcceptsPlainNames(t *testing.T) {
	v := New(testutil.NewMemoryFS())
	for _, names := range []string{"git", "git;vim", "git.install", "", "7zip.portable;notepadplusplus"} {
		assert.NoError(t, v.Validate(names), names)
	}
}

func TestValidateRejectsExistingArchive(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/tmp/foo.nupkg", []byte("pk"), 0644))
	v := New(fs)

	err := v.Validate("/tmp/foo.nupkg")
	require.Error(t, err)
	assert.True(t, chocoerrors.IsCode(err, chocoerrors.ErrPathAsPackage))
	assert.Contains(t, err.Error(), `choco install foo --source="/tmp"`)
}

func TestValidateRejectsArchivePathsEvenWhenMissing(t *testing.T) {
	v := New(testutil.NewMemoryFS())

	tests := []struct {
		name  string
		token string
	}{
		{"absolute path", "/downloads/git.2.44.0.nupkg"},
		{"UNC path", `\\server\share\git.2.44.0.nupkg`},
		{"relative dotted path", "./git.2.44.0.nupkg"},
		{"windows drive path", `C:\downloads\git.2.44.0.nupkg`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.token)
			require.Error(t, err)
			assert.True(t, chocoerrors.IsCode(err, chocoerrors.ErrPathAsPackage))
		})
	}
}

func TestValidateReconstructsVersionedExample(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/downloads/git.install.2.44.0.nupkg", []byte("pk"), 0644))
	v := New(fs)

	err := v.Validate("/downloads/git.install.2.44.0.nupkg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `choco install git.install --version="2.44.0" --source="/downloads"`)
}

func TestValidateRejectsManifest(t *testing.T) {
	v := New(testutil.NewMemoryFS())

	err := v.Validate("git.nuspec")
	require.Error(t, err)
	assert.True(t, chocoerrors.IsCode(err, chocoerrors.ErrManifestAsPackage))
	assert.Contains(t, err.Error(), "choco pack")
}

func TestValidateChecksEveryToken(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/tmp/foo.nupkg", []byte("pk"), 0644))
	v := New(fs)

	err := v.Validate("git;/tmp/foo.nupkg")
	require.Error(t, err)
}

func TestSplitNameVersion(t *testing.T) {
	tests := []struct {
		base        string
		wantName    string
		wantVersion string
	}{
		{"foo", "foo", ""},
		{"foo.1.0.0", "foo", "1.0.0"},
		{"git.install.2.44.0", "git.install", "2.44.0"},
		{"7zip.portable.23.1.0-beta1", "7zip.portable", "23.1.0-beta1"},
		{"dotnet.sdk", "dotnet.sdk", ""},
		{"a.1", "a", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			name, version := SplitNameVersion(tt.base)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantVersion, version)
		})
	}
}

func TestValidateRejectsEveryExistingArchive_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("every existing file ending in the archive extension is rejected", prop.ForAll(
		func(base string) bool {
			fs := testutil.NewMemoryFS()
			path := "/feed/" + base + ".nupkg"
			if err := fs.WriteFile(path, []byte("pk"), 0644); err != nil {
				return false
			}
			return New(fs).Validate(path) != nil
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
