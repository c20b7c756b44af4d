package filesystem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chocoforge/choco/pkg/filesystem"
	"github.com/chocoforge/choco/pkg/testutil"
)

func TestFileAndDirExists(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/a/b/file.txt", []byte("x"), 0644))

	assert.True(t, filesystem.FileExists(fs, "/a/b/file.txt"))
	assert.False(t, filesystem.FileExists(fs, "/a/b"))
	assert.True(t, filesystem.DirExists(fs, "/a/b"))
	assert.False(t, filesystem.DirExists(fs, "/a/b/file.txt"))
	assert.False(t, filesystem.FileExists(fs, "/missing"))
}

func TestWalkFiles(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/root/a.txt", []byte("a"), 0644))
	require.NoError(t, fs.WriteFile("/root/sub/b.txt", []byte("b"), 0644))
	require.NoError(t, fs.WriteFile("/root/sub/deep/c.txt", []byte("c"), 0644))

	files := filesystem.WalkFiles(fs, "/root")
	assert.ElementsMatch(t, []string{"/root/a.txt", "/root/sub/b.txt", "/root/sub/deep/c.txt"}, files)
}

func TestCopyDirectory(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/src/a.txt", []byte("a"), 0644))
	require.NoError(t, fs.WriteFile("/src/sub/b.txt", []byte("b"), 0644))

	require.NoError(t, filesystem.CopyDirectory(fs, "/src", "/dst"))

	data, err := fs.ReadFile("/dst/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "b", string(data))
	// Source untouched.
	assert.True(t, filesystem.FileExists(fs, "/src/a.txt"))
}

func TestMoveDirectory(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/src/sub/b.txt", []byte("b"), 0644))

	require.NoError(t, filesystem.MoveDirectory(fs, "/src", "/dst/nested"))

	assert.True(t, filesystem.FileExists(fs, "/dst/nested/sub/b.txt"))
	assert.False(t, filesystem.DirExists(fs, "/src"))
}

func TestIsLocalOrUNCPath(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"git", false},
		{"git.install", false},
		{"", false},
		{"/tmp/foo.nupkg", true},
		{`C:\temp\foo.nupkg`, true},
		{`\\server\share\foo.nupkg`, true},
		{"//server/share/foo.nupkg", true},
		{"./foo.nupkg", true},
		{"../foo.nupkg", true},
		{"sub/dir/foo.nupkg", true},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, filesystem.IsLocalOrUNCPath(tt.token))
		})
	}
}
