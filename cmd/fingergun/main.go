package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/ayusman/fingergun/internal/app"
	"github.com/ayusman/fingergun/internal/audio"
	"github.com/ayusman/fingergun/internal/capture"
	"github.com/ayusman/fingergun/internal/config"
	"github.com/ayusman/fingergun/internal/detector"
	"github.com/ayusman/fingergun/internal/game"
	"github.com/ayusman/fingergun/internal/gesture"
	"github.com/ayusman/fingergun/internal/logging"
	"github.com/ayusman/fingergun/internal/tracker"
	"github.com/ayusman/fingergun/internal/tray"
	"github.com/ayusman/fingergun/internal/ui/term"
	"github.com/ayusman/fingergun/internal/ui/window"
)

// The window and the tray both need the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "fingergun: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := config.Flags()
	if err := flags.Parse(args); err != nil {
		return err
	}
	configFile, _ := flags.GetString("config")

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return err
	}

	logOut, closeLog, err := logOutput(cfg.UI.Frontend)
	if err != nil {
		return err
	}
	defer closeLog()

	root, err := logging.New(cfg.Log.Level, cfg.Log.Format, logOut)
	if err != nil {
		return err
	}
	log := root.With().Str("session", uuid.NewString()).Logger()

	appCfg, err := appConfig(cfg, time.Now())
	if err != nil {
		return err
	}
	log.Info().
		Str("input", appCfg.Source).
		Str("ui", cfg.UI.Frontend).
		Stringer("difficulty", appCfg.Game.Difficulty).
		Uint64("seed", appCfg.Game.Seed).
		Msg("starting fingergun")

	player := newPlayer(cfg, logging.Component(log, "audio"))
	defer player.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(appCfg, player, log)
	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer func() {
		if err := a.Stop(); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	mouse := a.Source() == app.SourceMouse
	switch cfg.UI.Frontend {
	case "terminal":
		return runTerminal(ctx, a, cfg.UI, mouse)
	default:
		w := window.New(a.Engine(), cfg.Game.ScreenWidth, cfg.Game.ScreenHeight, window.Config{
			Title:    cfg.UI.Title,
			TickRate: appCfg.TickRate,
			Mouse:    mouse,
		})
		return w.Run(ctx)
	}
}

// runTerminal plays in the terminal. With the tray enabled the main
// goroutine runs the tray and the game loop moves to its own goroutine.
func runTerminal(ctx context.Context, a *app.App, cfg config.UIConfig, mouse bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	fe, err := term.New(screen, mouse)
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer fe.Close()

	if !cfg.Tray {
		return a.Run(ctx, fe)
	}

	t := tray.New(cfg.Title)
	errc := make(chan error, 1)
	var ready atomic.Bool
	t.Run(func() {
		ready.Store(true)
		go func() {
			errc <- a.Run(ctx, tray.Wrap(fe, t))
			tray.Quit()
		}()
	})
	if !ready.Load() {
		return a.Run(ctx, fe)
	}
	return <-errc
}

// logOutput keeps logs off the screen the terminal frontend draws on.
func logOutput(frontend string) (io.Writer, func(), error) {
	if frontend != "terminal" {
		return os.Stderr, func() {}, nil
	}
	f, err := os.OpenFile(filepath.Join(os.TempDir(), "fingergun.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func newPlayer(cfg *config.Config, log zerolog.Logger) audio.Player {
	if !cfg.Audio.Enabled {
		log.Info().Msg("audio disabled")
		return audio.Nop{}
	}
	return audio.NewBeepPlayer(audio.Config{
		SampleRate: cfg.Audio.SampleRate,
		AssetsDir:  cfg.Audio.AssetsDir,
		Volume:     cfg.Audio.Volume,
		Muted:      cfg.Audio.Muted,
	}, log)
}

// appConfig translates the loaded configuration. A zero seed is replaced by
// one derived from now.
func appConfig(cfg *config.Config, now time.Time) (app.Config, error) {
	difficulty, err := game.ParseDifficulty(cfg.Game.Difficulty)
	if err != nil {
		return app.Config{}, err
	}

	seed := uint64(cfg.Game.Seed)
	if seed == 0 {
		seed = uint64(now.UnixNano())
	}

	gameCfg := game.DefaultConfig()
	gameCfg.Width = float64(cfg.Game.ScreenWidth)
	gameCfg.Height = float64(cfg.Game.ScreenHeight)
	gameCfg.Difficulty = difficulty
	gameCfg.ReloadDelay = cfg.Game.ReloadDelay
	gameCfg.TargetLifetime = cfg.Game.TargetLifetime
	gameCfg.SessionLength = cfg.Game.SessionLength
	gameCfg.RampEvery = cfg.Game.RampEvery
	gameCfg.RampStep = cfg.Game.RampStep
	gameCfg.WeightRamp = cfg.Game.WeightRamp
	gameCfg.Muted = cfg.Audio.Muted
	gameCfg.Volume = cfg.Audio.Volume
	gameCfg.Seed = seed

	return app.Config{
		Source:   cfg.Input.Source,
		TickRate: cfg.Game.TickRate,
		Camera: capture.Config{
			DeviceID: cfg.Camera.DeviceID,
			FPS:      cfg.Camera.FPS,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
		},
		Detector: detector.Config{
			MaxHands:        1,
			MinConfidence:   cfg.Detector.MinConfidence,
			MinTrackingConf: cfg.Detector.MinTrackingConf,
			Script:          cfg.Detector.Script,
			Python:          cfg.Detector.Python,
			IdleTimeout:     cfg.Detector.IdleTimeout,
			StartTimeout:    cfg.Detector.StartTimeout,
			ReplyTimeout:    cfg.Detector.ReplyTimeout,
		},
		Tracker: tracker.Config{
			StaleAfter:      cfg.Camera.StaleAfter,
			MotionThreshold: cfg.Tracker.MotionThreshold,
			MaxSkipFrames:   cfg.Tracker.MaxSkipFrames,
		},
		Gesture: gesture.Config{
			MinConfidence:       cfg.Gesture.MinConfidence,
			FingerExtendedAngle: cfg.Gesture.FingerExtendedAngle,
			ThumbExtendedAngle:  cfg.Gesture.ThumbExtendedAngle,
			ThumbSpread:         cfg.Gesture.ThumbSpread,
			Smoothing:           cfg.Gesture.Smoothing,
			Deadzone:            cfg.Gesture.Deadzone,
			DwellFrames:         cfg.Gesture.DwellFrames,
			LostFrames:          cfg.Gesture.LostFrames,
			Mirror:              cfg.Gesture.Mirror,
			Adaptive:            cfg.Gesture.Adaptive,
		},
		Game: gameCfg,
	}, nil
}
