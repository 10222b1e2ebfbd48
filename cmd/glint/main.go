package main

import (
	"fmt"
	"math"
	"os"

	"github.com/avrand/glint/common"
	"github.com/avrand/glint/config"
	"github.com/avrand/glint/engine"
	"github.com/avrand/glint/engine/camera"
	"github.com/avrand/glint/engine/loader"
	"github.com/avrand/glint/engine/renderer"
	"github.com/avrand/glint/engine/scene"
	"github.com/avrand/glint/engine/window"
	"github.com/avrand/glint/logger"
	"go.uber.org/zap"
)

func main() {
	config.ParseFlags()

	args, err := config.ParseArgs()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	win := window.NewWindow(
		window.WithTitle("glint"),
		window.WithWidth(cfg.Graphics.Width),
		window.WithHeight(cfg.Graphics.Height),
	)

	presentMode := renderer.PresentModeUncapped
	if cfg.Graphics.VSync {
		presentMode = renderer.PresentModeVSync
	}
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaaSampleCount(cfg.Graphics.MSAA)),
	)

	ctrl := camera.NewOrbitController(
		camera.WithRadius(cfg.Camera.Radius),
		camera.WithSensitivity(cfg.Camera.Sensitivity),
	)
	cam := camera.NewCamera(
		camera.WithFov(cfg.Camera.FovDegrees*math.Pi/180),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithNear(cfg.Camera.Near),
		camera.WithFar(cfg.Camera.Far),
		camera.WithController(ctrl),
	)

	sc := scene.NewScene(
		scene.WithName("viewer"),
		scene.WithCamera(cam),
		scene.WithRenderer(r),
	)

	if args.HasEnvironment() {
		if err := loadEnvironment(sc, args); err != nil {
			logger.Fatal("failed to load environment", zap.Error(err))
		}
	}

	mdl, err := loader.NewLoader().Load(args.AssetPath)
	if err != nil {
		logger.Fatal("failed to load model", zap.String("path", args.AssetPath), zap.Error(err))
	}
	if err := sc.AddModel(mdl); err != nil {
		logger.Fatal("failed to add model to scene", zap.Error(err))
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(0, sc),
		engine.WithRenderFrameLimit(float64(cfg.Graphics.FPSLimit)),
		engine.WithProfiling(cfg.Logging.Level == "debug"),
	)

	wireInput(eng, win, ctrl)

	logger.Info("viewer started",
		zap.String("asset", args.AssetPath),
		zap.Bool("environment", args.HasEnvironment()),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)
	eng.Run()
}

// loadEnvironment decodes the environment bundle from disk and stages it on
// the scene. A missing BRDF lookup path falls back to the bundled table.
func loadEnvironment(sc scene.Scene, args config.Args) error {
	env := loader.NewEnvironmentLoader()

	panorama, err := env.LoadPanorama(args.SkyboxPath)
	if err != nil {
		return err
	}
	diffuse, err := env.LoadCubemap(args.IBLDiffusePath)
	if err != nil {
		return err
	}
	specular, err := env.LoadCubemap(args.IBLSpecularPath)
	if err != nil {
		return err
	}

	lutPath := args.BRDFLutPath
	if lutPath == "" {
		lutPath = loader.DefaultBRDFLutPath
	}
	lut, err := env.LoadBRDFLut(lutPath)
	if err != nil {
		return err
	}

	return sc.SetEnvironment(panorama, diffuse, specular, lut)
}

// wireInput connects mouse and keyboard events to the orbit controller:
// left-drag orbits, scroll zooms, R resets the view, escape quits.
func wireInput(eng engine.Engine, win window.Window, ctrl camera.Controller) {
	var (
		dragging     bool
		lastX, lastY int32
	)
	homeRadius := ctrl.Radius()
	homeYaw := ctrl.Yaw()
	homePitch := ctrl.Pitch()

	win.SetLeftMouseDownCallback(func(x, y int32) {
		dragging = true
		lastX, lastY = x, y
	})
	win.SetLeftMouseUpCallback(func(x, y int32) {
		dragging = false
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		if !dragging {
			return
		}
		ctrl.Drag(float32(x-lastX), float32(y-lastY))
		lastX, lastY = x, y
	})
	win.SetScrollCallback(func(delta float32) {
		ctrl.Zoom(delta)
	})
	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeyEsc:
			eng.Quit()
		case common.KeyR:
			ctrl.SetRadius(homeRadius)
			ctrl.SetYaw(homeYaw)
			ctrl.SetPitch(homePitch)
		}
	})
}

// msaaSampleCount maps the configured sample count to a supported value.
// Unsupported counts disable multisampling.
func msaaSampleCount(samples int) renderer.MSAASampleCount {
	switch samples {
	case 4:
		return renderer.MSAA4x
	case 8:
		return renderer.MSAA8x
	default:
		return renderer.MSAAOff
	}
}
