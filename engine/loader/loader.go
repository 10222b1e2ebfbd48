// Package loader imports glTF assets and environment images (Radiance HDR
// panoramas, KTX2 cubemaps, BRDF lookup tables) into engine-ready CPU data.
// GPU upload happens later, driven by the scene during its init phase.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/avrand/glint/engine/model"
	"github.com/avrand/glint/logger"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model
}

// Loader defines the public-facing interface for loading and caching 3D models.
// Loading is CPU-only: the returned models carry staged vertex, index, and
// texture data plus empty bind group providers that the scene uploads during
// GPU initialization.
type Loader interface {
	// Load imports a glTF or GLB file and caches the result by path.
	// If the model is already cached, the cached version is returned.
	//
	// Parameters:
	//   - path: the file path to the .gltf or .glb asset
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if the file cannot be read or violates the supported subset
	Load(path string) (model.Model, error)

	// Get retrieves a cached model by path. Returns nil if not found.
	//
	// Parameters:
	//   - path: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(path string) model.Model

	// Models returns a copy of the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by path
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with an empty model cache.
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader() Loader {
	return &loader{
		mu:         sync.RWMutex{},
		modelCache: make(map[string]model.Model),
	}
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		logger.Debug("skipping duplicate load of model", zap.String("path", path))
		return cached, nil
	}
	l.mu.RUnlock()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
	default:
		return nil, fmt.Errorf("unsupported model format: %s", ext)
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ext)
	importer := newGLTFImporter(doc, filepath.Dir(path))
	m, err := importer.importModel(name)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", path, err)
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	logger.Info("loaded model",
		zap.String("path", path),
		zap.Int("nodes", len(m.Nodes())),
		zap.Int("meshes", len(m.Meshes())),
		zap.Int("materials", len(m.Materials())),
	)
	return m, nil
}

func (l *loader) Get(path string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[path]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}
