// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	VSync    bool `yaml:"vsync"`
	MSAA     int  `yaml:"msaa"`
	FPSLimit int  `yaml:"fps_limit"`
}

// CameraConfig holds camera and input settings.
type CameraConfig struct {
	FovDegrees  float32 `yaml:"fov_degrees"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
	Radius      float32 `yaml:"radius"`
	Sensitivity float32 `yaml:"sensitivity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:    1280,
			Height:   720,
			VSync:    true,
			MSAA:     1,
			FPSLimit: 0,
		},
		Camera: CameraConfig{
			FovDegrees:  45.0,
			Near:        0.1,
			Far:         100.0,
			Radius:      3.0,
			Sensitivity: 0.4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
