// Package config loads fingergun settings from defaults, an optional config file,
// FINGERGUN_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "FINGERGUN"

// Config is the complete application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Input    InputConfig    `mapstructure:"input"`
	Camera   CameraConfig   `mapstructure:"camera"`
	Detector DetectorConfig `mapstructure:"detector"`
	Tracker  TrackerConfig  `mapstructure:"tracker"`
	Gesture  GestureConfig  `mapstructure:"gesture"`
	Game     GameConfig     `mapstructure:"game"`
	Audio    AudioConfig    `mapstructure:"audio"`
	UI       UIConfig       `mapstructure:"ui"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InputConfig selects where the pointer comes from: "camera" or "mouse".
type InputConfig struct {
	Source string `mapstructure:"source"`
}

// CameraConfig holds capture device settings.
type CameraConfig struct {
	DeviceID   int           `mapstructure:"device"`
	FPS        int           `mapstructure:"fps"`
	Width      int           `mapstructure:"width"`
	Height     int           `mapstructure:"height"`
	StaleAfter time.Duration `mapstructure:"staleAfter"`
}

// DetectorConfig holds MediaPipe subprocess settings.
type DetectorConfig struct {
	Script          string        `mapstructure:"script"`
	Python          string        `mapstructure:"python"`
	MinConfidence   float64       `mapstructure:"minConfidence"`
	MinTrackingConf float64       `mapstructure:"minTrackingConfidence"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"`
	StartTimeout    time.Duration `mapstructure:"startTimeout"`
	ReplyTimeout    time.Duration `mapstructure:"replyTimeout"`
}

// TrackerConfig holds the per-tick pose polling settings.
type TrackerConfig struct {
	MotionThreshold float64 `mapstructure:"motionThreshold"`
	MaxSkipFrames   int     `mapstructure:"maxSkipFrames"`
}

// GestureConfig holds classifier tuning parameters.
type GestureConfig struct {
	MinConfidence       float64 `mapstructure:"minConfidence"`
	FingerExtendedAngle float64 `mapstructure:"fingerExtendedAngle"`
	ThumbExtendedAngle  float64 `mapstructure:"thumbExtendedAngle"`
	ThumbSpread         float64 `mapstructure:"thumbSpread"`
	Smoothing           float64 `mapstructure:"smoothing"`
	Deadzone            float64 `mapstructure:"deadzone"`
	DwellFrames         int     `mapstructure:"dwellFrames"`
	LostFrames          int     `mapstructure:"lostFrames"`
	Mirror              bool    `mapstructure:"mirror"`
	Adaptive            bool    `mapstructure:"adaptive"`
}

// GameConfig holds session rules that are not per-difficulty.
type GameConfig struct {
	ScreenWidth    int           `mapstructure:"screenWidth"`
	ScreenHeight   int           `mapstructure:"screenHeight"`
	TickRate       int           `mapstructure:"tickRate"`
	Difficulty     string        `mapstructure:"difficulty"`
	ReloadDelay    time.Duration `mapstructure:"reloadDelay"`
	TargetLifetime time.Duration `mapstructure:"targetLifetime"`
	SessionLength  time.Duration `mapstructure:"sessionLength"`
	RampEvery      time.Duration `mapstructure:"rampEvery"`
	RampStep       time.Duration `mapstructure:"rampStep"`
	WeightRamp     time.Duration `mapstructure:"weightRamp"`
	Seed           int64         `mapstructure:"seed"`
}

// AudioConfig holds cue playback settings.
type AudioConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Muted      bool   `mapstructure:"muted"`
	Volume     int    `mapstructure:"volume"`
	AssetsDir  string `mapstructure:"assetsDir"`
	SampleRate int    `mapstructure:"sampleRate"`
}

// UIConfig selects and configures the frontend: "window" or "terminal".
// Tray adds a system tray menu to the terminal frontend.
type UIConfig struct {
	Frontend string `mapstructure:"frontend"`
	Title    string `mapstructure:"title"`
	Tray     bool   `mapstructure:"tray"`
}

// flagKeys maps command line flag names to config keys.
var flagKeys = map[string]string{
	"camera":     "camera.device",
	"input":      "input.source",
	"ui":         "ui.frontend",
	"tray":       "ui.tray",
	"difficulty": "game.difficulty",
	"log-level":  "log.level",
	"log-format": "log.format",
	"mute":       "audio.muted",
	"volume":     "audio.volume",
	"no-audio":   "audio.enabled",
	"seed":       "game.seed",
}

// Flags returns the command line flag set understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("fingergun", pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.Int("camera", 0, "camera device id")
	fs.String("input", "camera", "pointer source: camera or mouse")
	fs.String("ui", "window", "frontend: window or terminal")
	fs.Bool("tray", false, "show a system tray menu with the terminal frontend")
	fs.String("difficulty", "normal", "starting difficulty: easy, normal or hard")
	fs.String("log-level", "info", "log level")
	fs.String("log-format", "console", "log format: console or json")
	fs.Bool("mute", false, "start muted")
	fs.Int("volume", 80, "master volume 0-100")
	fs.Bool("no-audio", false, "disable audio output")
	fs.Int64("seed", 0, "random seed for target spawning (0 picks one)")
	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("input.source", "camera")

	v.SetDefault("camera.device", 0)
	v.SetDefault("camera.fps", 30)
	v.SetDefault("camera.width", 640)
	v.SetDefault("camera.height", 480)
	v.SetDefault("camera.staleAfter", "500ms")

	v.SetDefault("detector.script", "")
	v.SetDefault("detector.python", "")
	v.SetDefault("detector.minConfidence", 0.7)
	v.SetDefault("detector.minTrackingConfidence", 0.5)
	v.SetDefault("detector.idleTimeout", "30s")
	v.SetDefault("detector.startTimeout", "30s")
	v.SetDefault("detector.replyTimeout", "2s")

	v.SetDefault("tracker.motionThreshold", 0.5)
	v.SetDefault("tracker.maxSkipFrames", 2)

	v.SetDefault("gesture.minConfidence", 0.5)
	v.SetDefault("gesture.fingerExtendedAngle", 140.0)
	v.SetDefault("gesture.thumbExtendedAngle", 150.0)
	v.SetDefault("gesture.thumbSpread", 0.45)
	v.SetDefault("gesture.smoothing", 0.4)
	v.SetDefault("gesture.deadzone", 0.004)
	v.SetDefault("gesture.dwellFrames", 3)
	v.SetDefault("gesture.lostFrames", 5)
	v.SetDefault("gesture.mirror", true)
	v.SetDefault("gesture.adaptive", false)

	v.SetDefault("game.screenWidth", 1280)
	v.SetDefault("game.screenHeight", 720)
	v.SetDefault("game.tickRate", 60)
	v.SetDefault("game.difficulty", "normal")
	v.SetDefault("game.reloadDelay", "1200ms")
	v.SetDefault("game.targetLifetime", "8s")
	v.SetDefault("game.sessionLength", "0s")
	v.SetDefault("game.rampEvery", "20s")
	v.SetDefault("game.rampStep", "83ms")
	v.SetDefault("game.weightRamp", "90s")
	v.SetDefault("game.seed", 0)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.muted", false)
	v.SetDefault("audio.volume", 80)
	v.SetDefault("audio.assetsDir", "assets/sounds")
	v.SetDefault("audio.sampleRate", 44100)

	v.SetDefault("ui.frontend", "window")
	v.SetDefault("ui.title", "Gesture Shooting Game")
	v.SetDefault("ui.tray", false)
}

// Load reads the configuration. configFile may be empty, in which case
// fingergun.{yaml,json,toml} is looked up in the working directory and in
// ~/.fingergun; a missing file is not an error. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("fingergun")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".fingergun"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// --no-audio is the inverse of audio.enabled.
	if flags != nil {
		if f := flags.Lookup("no-audio"); f != nil && f.Changed {
			noAudio, _ := flags.GetBool("no-audio")
			cfg.Audio.Enabled = !noAudio
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if name == "no-audio" {
			continue
		}
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error

	switch c.Input.Source {
	case "camera", "mouse":
	default:
		errs = append(errs, fmt.Errorf("input.source must be camera or mouse, got %q", c.Input.Source))
	}
	switch c.UI.Frontend {
	case "window", "terminal":
	default:
		errs = append(errs, fmt.Errorf("ui.frontend must be window or terminal, got %q", c.UI.Frontend))
	}
	switch strings.ToLower(c.Game.Difficulty) {
	case "easy", "normal", "hard":
	default:
		errs = append(errs, fmt.Errorf("game.difficulty must be easy, normal or hard, got %q", c.Game.Difficulty))
	}

	if c.Gesture.Smoothing <= 0 || c.Gesture.Smoothing > 1 {
		errs = append(errs, fmt.Errorf("gesture.smoothing must be in (0, 1], got %v", c.Gesture.Smoothing))
	}
	if c.Gesture.DwellFrames < 1 {
		errs = append(errs, fmt.Errorf("gesture.dwellFrames must be >= 1, got %d", c.Gesture.DwellFrames))
	}
	if c.Gesture.LostFrames < 1 {
		errs = append(errs, fmt.Errorf("gesture.lostFrames must be >= 1, got %d", c.Gesture.LostFrames))
	}
	if c.Gesture.MinConfidence < 0 || c.Gesture.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("gesture.minConfidence must be in [0, 1], got %v", c.Gesture.MinConfidence))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		errs = append(errs, fmt.Errorf("audio.volume must be in [0, 100], got %d", c.Audio.Volume))
	}
	if c.Game.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("game.tickRate must be positive, got %d", c.Game.TickRate))
	}
	if c.Game.ScreenWidth < 100 || c.Game.ScreenHeight < 100 {
		errs = append(errs, fmt.Errorf("game screen must be at least 100x100, got %dx%d", c.Game.ScreenWidth, c.Game.ScreenHeight))
	}
	if c.Game.ReloadDelay < 0 || c.Game.TargetLifetime <= 0 || c.Game.SessionLength < 0 {
		errs = append(errs, errors.New("game durations must not be negative and targetLifetime must be positive"))
	}
	if c.Camera.StaleAfter <= 0 {
		errs = append(errs, fmt.Errorf("camera.staleAfter must be positive, got %v", c.Camera.StaleAfter))
	}

	return errors.Join(errs...)
}
