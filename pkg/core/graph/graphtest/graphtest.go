// Package graphtest holds test utilities for packages that depend on the graph package.
package graphtest

import (
	"os"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/gomlx/looptrace/backends"
	_ "github.com/gomlx/looptrace/backends/default"
	"k8s.io/klog/v2"
)

var (
	officialTestBackendNames = []string{
		"go",
		"kernels",
		"kernels:serial",
	}

	backendsMu           sync.Mutex
	officialTestBackends = make(map[string]backends.Backend)
)

func init() {
	if selectedBackendName := os.Getenv(backends.ConfigEnvVar); selectedBackendName != "" {
		officialTestBackendNames = []string{selectedBackendName}
	}
}

// BuildTestBackend returns the reference backend ("go"), unless LOOPTRACE_BACKEND selects another one.
// Backends are cached and shared among tests.
func BuildTestBackend() backends.Backend {
	return getBackend(officialTestBackendNames[0])
}

func getBackend(config string) backends.Backend {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if backend, found := officialTestBackends[config]; found {
		return backend
	}
	backend, err := backends.NewWithConfig(config)
	if err != nil {
		klog.Errorf("Failed to create backend %q: %+v", config, err)
		return nil
	}
	officialTestBackends[config] = backend
	return backend
}

// RunOnBackends iterates over the list of official backends and calls testFn for each of them,
// as a sub-test named after the backend configuration.
//
// If LOOPTRACE_BACKEND environment variable is set, it will only iterate over the one set.
// Otherwise it iterates over all official backends, except those whose configuration starts
// with one of excludeBackends (for tests known not to work on those backends).
func RunOnBackends(t *testing.T, testFn func(t *testing.T, backend backends.Backend), excludeBackends ...string) {
	for _, config := range officialTestBackendNames {
		if slices.ContainsFunc(excludeBackends, func(prefix string) bool { return strings.HasPrefix(config, prefix) }) {
			continue
		}
		t.Run(config, func(t *testing.T) {
			backend := getBackend(config)
			if backend == nil {
				t.Fatalf("backend %q not available", config)
			}
			testFn(t, backend)
		})
	}
}
