package wgpustein

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type AssetId string

type ShaderAsset struct {
	version uint
	Name    string
	Source  string
}

type AssetServer struct {
	shaders map[AssetId]ShaderAsset
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		shaders: make(map[AssetId]ShaderAsset),
	}
}

// AddShader stores WGSL source under a fresh id.
func (server *AssetServer) AddShader(name string, source string) AssetId {
	id := makeAssetId()

	server.shaders[id] = ShaderAsset{
		version: 0,
		Name:    name,
		Source:  source,
	}

	return id
}

func (server *AssetServer) LoadShader(filename string) (AssetId, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("load shader: %w", err)
	}
	return server.AddShader(filepath.Base(filename), string(source)), nil
}

// ReplaceShader swaps the source behind id and bumps its version.
func (server *AssetServer) ReplaceShader(id AssetId, source string) error {
	shader, ok := server.shaders[id]
	if !ok {
		return fmt.Errorf("shader %s not found", id)
	}
	shader.version++
	shader.Source = source
	server.shaders[id] = shader
	return nil
}

func (server *AssetServer) Shader(id AssetId) (ShaderAsset, bool) {
	shader, ok := server.shaders[id]
	return shader, ok
}

func (server *AssetServer) ShaderVersion(id AssetId) uint {
	return server.shaders[id].version
}

// AssetServerModule publishes a server as a resource, creating an empty one
// when none is given.
type AssetServerModule struct {
	Server *AssetServer
}

func (m AssetServerModule) Install(app *App, cmd *Commands) {
	server := m.Server
	if server == nil {
		server = NewAssetServer()
	}
	app.addResources(server)
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
