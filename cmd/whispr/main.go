package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/whisprhq/whispr/internal/audio"
	"github.com/whisprhq/whispr/internal/config"
	"github.com/whisprhq/whispr/internal/hotkey"
	"github.com/whisprhq/whispr/internal/inject"
	"github.com/whisprhq/whispr/internal/logging"
	"github.com/whisprhq/whispr/internal/permissions"
	"github.com/whisprhq/whispr/internal/session"
	"github.com/whisprhq/whispr/internal/tray"
	"github.com/whisprhq/whispr/internal/whisper"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

func main() {
	// Load config from XDG/Library/AppData
	cfg, err := config.Load()
	if err != nil {
		// Use default logger if config fails to load
		log := logging.New()
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	// macOS requires explicit microphone + accessibility approval before capture or hotkeys work
	if err := permissions.EnsurePermissions(); err != nil {
		log.Fatal().Err(err).Msg("Required permissions not granted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the capture engine with the configured device and settings
	engine, err := audio.NewEngine(log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize audio")
	}
	defer engine.Close()

	if cfg.Audio.DeviceName != "" {
		if err := engine.SelectDevice(cfg.Audio.DeviceName); err != nil {
			// Fall back to the default device rather than refusing to start
			log.Warn().Err(err).Str("device", cfg.Audio.DeviceName).Msg("Configured device unavailable")
		}
	}
	engine.ConfigureSilenceRemoval(audio.SilenceConfig{
		Enabled:   cfg.Audio.RemoveSilence,
		Threshold: cfg.Audio.SilenceThreshold,
		MinRun:    cfg.Audio.MinSilenceRun,
	})
	if cfg.SaveRecordings {
		engine.SetSaveRecordings(cfg.RecordingsDir)
	}

	// Initialize whisper
	transcriber, err := whisper.New(cfg.Whisper)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize whisper")
	}
	defer transcriber.Close()

	// Downstream consumer: final transcript goes to the focused app
	injector := inject.New(cfg.Inject)
	output := inject.NewSegmentPaster(injector, cfg.AppendSpace, log)

	// Tray consumes status notifications and drives engine settings
	trayUI := tray.New(engine, cfg, Version, Commit, log)

	controller := session.New(session.Deps{
		Engine:      engine,
		Transcriber: transcriber,
		Output:      output,
		Notifier:    trayUI,
		Logger:      log,
		Config: session.Config{
			MinDuration:    cfg.MinDuration(),
			TargetRate:     cfg.Audio.TargetSampleRate,
			TargetChannels: cfg.Audio.TargetChannels,
		},
	})

	// Initialize hotkey manager and register the push-to-talk chord
	hkManager, err := hotkey.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize hotkeys")
	}
	defer hkManager.Close()

	if err := hkManager.Register(cfg.PlatformHotkey(), controller.OnHotkey); err != nil {
		log.Fatal().Err(err).Msg("Failed to register hotkey")
	}

	log.Info().Str("hotkey", cfg.PlatformHotkey()).Msg("Whispr starting...")

	// Setup shutdown signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutting down...")
		controller.OnHotkey(false) // finish any in-flight session
		engine.Close()
		os.Exit(0)
	}()

	// Start tray UI - MUST run on main thread
	if err := trayUI.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Tray error")
	}
}
