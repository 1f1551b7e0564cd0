package gpu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var backendsByName = map[string]wgpu.InstanceBackend{
	"primary": wgpu.InstanceBackendPrimary,
	"vulkan":  wgpu.InstanceBackendVulkan,
	"metal":   wgpu.InstanceBackendMetal,
	"dx12":    wgpu.InstanceBackendDX12,
	"gl":      wgpu.InstanceBackendGL,
}

// ParseBackend maps a backend name to the instance backends Options.Backends
// restricts to. The empty name leaves the choice to wgpu.
func ParseBackend(name string) (wgpu.InstanceBackend, error) {
	if name == "" {
		return 0, nil
	}
	backend, ok := backendsByName[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown backend %q, want one of %s", name, strings.Join(BackendNames(), ", "))
	}
	return backend, nil
}

func BackendNames() []string {
	names := make([]string, 0, len(backendsByName))
	for name := range backendsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
