package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutHangsOffInstallRoot(t *testing.T) {
	p := NewAt("/opt/choco")

	assert.Equal(t, "/opt/choco", p.InstallRoot())
	assert.Equal(t, "/opt/choco/lib", p.PackagesRoot())
	assert.Equal(t, "/opt/choco/lib-bad", p.PackageFailuresRoot())
	assert.Equal(t, "/opt/choco/lib-bkp", p.PackageBackupRoot())
	assert.Equal(t, "/opt/choco/extensions", p.ExtensionsRoot())
	assert.Equal(t, "/opt/choco/templates", p.TemplatesRoot())
	assert.Equal(t, "/opt/choco/hooks", p.HooksRoot())
	assert.Equal(t, "/opt/choco/.chocolatey", p.MetadataRoot())
	assert.Equal(t, "/opt/choco/lib/git", p.PackagePath("git"))
	assert.Equal(t, "/opt/choco/lib/git/.chocolateyPending", p.PendingMarkerPath("/opt/choco/lib/git"))
}

func TestSamePath(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"/opt/choco", "/opt/choco", true},
		{"/opt/choco/", "/opt/choco", true},
		{"/opt/Choco", "/opt/choco", true},
		{"/opt/choco/lib/..", "/opt/choco", true},
		{"/opt/choco/lib", "/opt/choco", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SamePath(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}

func TestIsProtectedLocation(t *testing.T) {
	p := NewAt("/opt/choco")

	assert.True(t, IsProtectedLocation(p, "/opt/choco"))
	assert.True(t, IsProtectedLocation(p, "/opt/choco/lib"))
	assert.True(t, IsProtectedLocation(p, "/opt/choco/lib/"))
	assert.False(t, IsProtectedLocation(p, "/opt/choco/lib/git"))
	assert.False(t, IsProtectedLocation(p, "/elsewhere"))
}
