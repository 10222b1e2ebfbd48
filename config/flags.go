package config

import (
	"flag"
	"fmt"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagVSync       = flag.Bool("vsync", true, "Wait for vertical blank when presenting")
	flagFov         = flag.Float64("fov", 0, "Vertical field of view in degrees")
	flagLogFile     = flag.String("log-file", "", "Write logs to this file")
	flagSkybox      = flag.String("skybox", "", "Path to an equirectangular .hdr panorama for the skybox")
	flagIBLDiffuse  = flag.String("ibl-diffuse", "", "Path to the diffuse irradiance cubemap (.ktx2)")
	flagIBLSpecular = flag.String("ibl-specular", "", "Path to the pre-filtered specular cubemap (.ktx2)")
	flagBRDFLut     = flag.String("brdf-lut", "", "Path to the split-sum BRDF lookup table image")
)

// Args holds the asset paths resolved from the command line.
type Args struct {
	// AssetPath is the glTF model to display (required positional argument).
	AssetPath string
	// SkyboxPath is the equirectangular panorama, empty when no environment was requested.
	SkyboxPath string
	// IBLDiffusePath is the irradiance cubemap, empty when no environment was requested.
	IBLDiffusePath string
	// IBLSpecularPath is the pre-filtered specular cubemap, empty when no environment was requested.
	IBLSpecularPath string
	// BRDFLutPath is the split-sum lookup table, empty when no environment was requested.
	BRDFLutPath string
}

// HasEnvironment reports whether an image-based lighting bundle was requested.
//
// Returns:
//   - bool: true when the skybox and both IBL cubemaps were provided
func (a Args) HasEnvironment() bool {
	return a.SkyboxPath != ""
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ParseArgs resolves the positional asset path and environment flags.
// The three environment inputs (skybox, ibl-diffuse, ibl-specular) must be
// provided together or not at all; a partial bundle is a usage error.
//
// Returns:
//   - Args: the resolved asset paths
//   - error: an error when the asset path is missing or the bundle is partial
func ParseArgs() (Args, error) {
	if flag.NArg() < 1 {
		return Args{}, fmt.Errorf("usage: glint [flags] <asset.gltf>")
	}

	a := Args{
		AssetPath:       flag.Arg(0),
		SkyboxPath:      *flagSkybox,
		IBLDiffusePath:  *flagIBLDiffuse,
		IBLSpecularPath: *flagIBLSpecular,
		BRDFLutPath:     *flagBRDFLut,
	}

	provided := 0
	for _, p := range []string{a.SkyboxPath, a.IBLDiffusePath, a.IBLSpecularPath} {
		if p != "" {
			provided++
		}
	}
	if provided != 0 && provided != 3 {
		return Args{}, fmt.Errorf("the skybox, ibl-diffuse, and ibl-specular flags must be provided together")
	}
	if a.BRDFLutPath != "" && provided == 0 {
		return Args{}, fmt.Errorf("brdf-lut requires the full environment bundle")
	}

	return a, nil
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if !*flagVSync {
		cfg.Graphics.VSync = false
	}
	if *flagFov > 0 {
		cfg.Camera.FovDegrees = float32(*flagFov)
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
