package wgpustein

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetServer_AddAndReplaceShader(t *testing.T) {
	server := NewAssetServer()
	id := server.AddShader("quad.wgsl", "// v0")

	_, err := uuid.Parse(string(id))
	require.NoError(t, err)

	shader, ok := server.Shader(id)
	require.True(t, ok)
	assert.Equal(t, "quad.wgsl", shader.Name)
	assert.Equal(t, "// v0", shader.Source)
	assert.Equal(t, uint(0), server.ShaderVersion(id))

	require.NoError(t, server.ReplaceShader(id, "// v1"))
	shader, _ = server.Shader(id)
	assert.Equal(t, "// v1", shader.Source)
	assert.Equal(t, uint(1), server.ShaderVersion(id))

	assert.Error(t, server.ReplaceShader(AssetId("missing"), ""))
	_, ok = server.Shader(AssetId("missing"))
	assert.False(t, ok)
}

func TestAssetServer_IdsAreUnique(t *testing.T) {
	server := NewAssetServer()
	assert.NotEqual(t, server.AddShader("a", ""), server.AddShader("a", ""))
}

func TestAssetServer_LoadShader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("@vertex fn vs_main() {}"), 0o644))

	server := NewAssetServer()
	id, err := server.LoadShader(path)
	require.NoError(t, err)
	shader, _ := server.Shader(id)
	assert.Equal(t, "custom.wgsl", shader.Name)
	assert.Equal(t, "@vertex fn vs_main() {}", shader.Source)

	_, err = server.LoadShader(filepath.Join(dir, "missing.wgsl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAssetServerModule(t *testing.T) {
	server := NewAssetServer()
	app := newTestApp(NewNopLogger(), AssetServerModule{Server: server})
	got, ok := Resource[AssetServer](app)
	require.True(t, ok)
	assert.Same(t, server, got)

	app = newTestApp(NewNopLogger(), AssetServerModule{})
	_, ok = Resource[AssetServer](app)
	assert.True(t, ok)
}
