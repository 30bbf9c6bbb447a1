package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Input.Source != "camera" {
		t.Errorf("Input.Source = %q, want camera", cfg.Input.Source)
	}
	if cfg.Game.TickRate != 60 {
		t.Errorf("Game.TickRate = %d, want 60", cfg.Game.TickRate)
	}
	if cfg.Game.ReloadDelay != 1200*time.Millisecond {
		t.Errorf("Game.ReloadDelay = %v, want 1.2s", cfg.Game.ReloadDelay)
	}
	if cfg.Gesture.DwellFrames != 3 {
		t.Errorf("Gesture.DwellFrames = %d, want 3", cfg.Gesture.DwellFrames)
	}
	if cfg.Gesture.Smoothing != 0.4 {
		t.Errorf("Gesture.Smoothing = %v, want 0.4", cfg.Gesture.Smoothing)
	}
	if !cfg.Gesture.Mirror {
		t.Error("Gesture.Mirror should default to true")
	}
	if cfg.Gesture.Adaptive {
		t.Error("Gesture.Adaptive should default to false")
	}
	if cfg.Camera.StaleAfter != 500*time.Millisecond {
		t.Errorf("Camera.StaleAfter = %v, want 500ms", cfg.Camera.StaleAfter)
	}
	if !cfg.Audio.Enabled || cfg.Audio.Volume != 80 {
		t.Errorf("Audio = %+v, want enabled at volume 80", cfg.Audio)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := `
gesture:
  dwellFrames: 5
  smoothing: 0.25
  adaptive: true
game:
  difficulty: hard
  reloadDelay: 2s
audio:
  volume: 40
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Gesture.DwellFrames != 5 {
		t.Errorf("Gesture.DwellFrames = %d, want 5", cfg.Gesture.DwellFrames)
	}
	if cfg.Gesture.Smoothing != 0.25 {
		t.Errorf("Gesture.Smoothing = %v, want 0.25", cfg.Gesture.Smoothing)
	}
	if !cfg.Gesture.Adaptive {
		t.Error("Gesture.Adaptive should be set from the file")
	}
	if cfg.Game.Difficulty != "hard" {
		t.Errorf("Game.Difficulty = %q, want hard", cfg.Game.Difficulty)
	}
	if cfg.Game.ReloadDelay != 2*time.Second {
		t.Errorf("Game.ReloadDelay = %v, want 2s", cfg.Game.ReloadDelay)
	}
	if cfg.Audio.Volume != 40 {
		t.Errorf("Audio.Volume = %d, want 40", cfg.Audio.Volume)
	}
	// Untouched keys keep their defaults.
	if cfg.Gesture.LostFrames != 5 {
		t.Errorf("Gesture.LostFrames = %d, want default 5", cfg.Gesture.LostFrames)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("/nonexistent/fingergun.yaml", nil)
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
	if !strings.Contains(err.Error(), "read config file") {
		t.Errorf("error = %v, want read config file error", err)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FINGERGUN_GESTURE_LOSTFRAMES", "9")
	t.Setenv("FINGERGUN_UI_FRONTEND", "terminal")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Gesture.LostFrames != 9 {
		t.Errorf("Gesture.LostFrames = %d, want 9", cfg.Gesture.LostFrames)
	}
	if cfg.UI.Frontend != "terminal" {
		t.Errorf("UI.Frontend = %q, want terminal", cfg.UI.Frontend)
	}
}

func TestLoad_Flags(t *testing.T) {
	t.Chdir(t.TempDir())

	fs := Flags()
	if err := fs.Parse([]string{"--difficulty", "easy", "--input", "mouse", "--volume", "25", "--no-audio", "--tray"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cfg, err := Load("", fs)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.UI.Tray {
		t.Error("UI.Tray = false, want true from --tray")
	}
	if cfg.Game.Difficulty != "easy" {
		t.Errorf("Game.Difficulty = %q, want easy", cfg.Game.Difficulty)
	}
	if cfg.Input.Source != "mouse" {
		t.Errorf("Input.Source = %q, want mouse", cfg.Input.Source)
	}
	if cfg.Audio.Volume != 25 {
		t.Errorf("Audio.Volume = %d, want 25", cfg.Audio.Volume)
	}
	if cfg.Audio.Enabled {
		t.Error("--no-audio should disable audio")
	}
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		t.Chdir(t.TempDir())
		cfg, err := Load("", nil)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "smoothing zero", mutate: func(c *Config) { c.Gesture.Smoothing = 0 }},
		{name: "smoothing above one", mutate: func(c *Config) { c.Gesture.Smoothing = 1.5 }},
		{name: "dwell zero", mutate: func(c *Config) { c.Gesture.DwellFrames = 0 }},
		{name: "volume too loud", mutate: func(c *Config) { c.Audio.Volume = 120 }},
		{name: "unknown frontend", mutate: func(c *Config) { c.UI.Frontend = "vr" }},
		{name: "unknown input", mutate: func(c *Config) { c.Input.Source = "joystick" }},
		{name: "unknown difficulty", mutate: func(c *Config) { c.Game.Difficulty = "nightmare" }},
		{name: "tick rate zero", mutate: func(c *Config) { c.Game.TickRate = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
