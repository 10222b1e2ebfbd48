package scene

import (
	"os"
	"testing"

	"github.com/avrand/glint/engine/camera"
	"github.com/avrand/glint/engine/model"
	"github.com/avrand/glint/logger"
)

func TestMain(m *testing.M) {
	logger.InitWithFileConfig("error", logger.FileConfig{}, false)
	os.Exit(m.Run())
}

func TestNewSceneDefaults(t *testing.T) {
	s := NewScene(WithName("viewer"))

	if s.Name() != "viewer" {
		t.Errorf("expected name %q, got %q", "viewer", s.Name())
	}
	if !s.Active() {
		t.Error("expected new scene to be active")
	}
	if s.IBL() == nil {
		t.Error("expected default lighting environment")
	}
	if s.Skybox() != nil {
		t.Error("expected no skybox before an environment is set")
	}
	if got := s.VariantCount(); got != 0 {
		t.Errorf("expected 0 shader variants, got %d", got)
	}
	if got := len(s.Models()); got != 0 {
		t.Errorf("expected empty model list, got %d entries", got)
	}
}

func TestSceneAccessors(t *testing.T) {
	s := NewScene()

	s.SetName("main")
	if s.Name() != "main" {
		t.Errorf("expected name %q, got %q", "main", s.Name())
	}

	s.SetActive(false)
	if s.Active() {
		t.Error("expected scene to be inactive after SetActive(false)")
	}

	cam := camera.NewCamera()
	s.SetCamera(cam)
	if s.Camera() != cam {
		t.Error("expected camera to round-trip through SetCamera")
	}
}

func TestAddModelRequiresRenderer(t *testing.T) {
	s := NewScene(WithCamera(camera.NewCamera()))

	err := s.AddModel(model.NewModel(model.WithName("cube")))
	if err == nil {
		t.Fatal("expected error adding a model without a renderer")
	}
}

func TestSetEnvironmentRequiresRenderer(t *testing.T) {
	s := NewScene()

	if err := s.SetEnvironment(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error setting environment without a renderer")
	}
}

func TestDrawCallsRequireRenderer(t *testing.T) {
	s := NewScene()

	if err := s.DrawCalls(); err == nil {
		t.Fatal("expected error drawing without a renderer")
	}
}

func TestUpdateWithoutRendererIsNoOp(t *testing.T) {
	s := NewScene(WithCamera(camera.NewCamera()))

	// Must not panic or touch GPU state.
	s.Update(0.016)
}

func TestClearRemovesModels(t *testing.T) {
	s := NewScene()
	s.Clear()
	if got := len(s.Models()); got != 0 {
		t.Errorf("expected no models after Clear, got %d", got)
	}
}
