package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"voice-assistant/config"
	"voice-assistant/internal/application"
	"voice-assistant/internal/infra/alsa"
	"voice-assistant/internal/infra/audio"
	"voice-assistant/internal/infra/espeak"
	"voice-assistant/internal/infra/music"
	"voice-assistant/internal/infra/ollama"
	"voice-assistant/internal/infra/wakeword"
	"voice-assistant/internal/infra/whisper"
	"voice-assistant/internal/status"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the assistant loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssistant()
		},
	}
}

func runAssistant() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)

	// OLLAMA_HOST wins over the config file, matching the ollama CLI.
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.Ollama.Host = host
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	detector := wakeword.NewDetector(wakeword.Config{
		AccessKey:       cfg.WakeWord.AccessKey,
		KeywordPath:     cfg.WakeWord.KeywordPath,
		Sensitivity:     cfg.WakeWord.Sensitivity,
		ActivationSound: cfg.WakeWord.ActivationSound,
	}, logger)

	recorder := audio.NewRecorder(audio.RecorderConfig{
		SampleRate:       cfg.Recording.Rate,
		Channels:         cfg.Recording.Channels,
		ChunkSize:        cfg.Recording.ChunkSize,
		MaxSeconds:       cfg.Recording.MaxSeconds,
		SilenceSeconds:   cfg.Recording.SilenceSeconds,
		SilenceThreshold: cfg.Recording.SilenceThreshold,
	}, logger)

	stt := whisper.NewClient(cfg.Whisper.ServerURL, cfg.Whisper.Model, cfg.Whisper.Language)
	chatter := ollama.NewClient(cfg.Ollama.Host, cfg.Ollama.Port, cfg.Ollama.Endpoint, cfg.Ollama.Model)
	speaker := espeak.NewSpeaker(cfg.TTS.Voice, cfg.TTS.Rate, cfg.Recording.OutputDevice, logger)

	player := music.NewPlayer(cfg.Music.Directory, cfg.Music.Player, cfg.Recording.OutputDevice, logger)
	go func() {
		if err := player.Watch(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("music library watching disabled", "error", err)
		}
	}()

	var stats application.Stats
	if cfg.Status.Enabled {
		metrics := status.NewMetrics()
		server := status.NewServer(cfg.Status.Addr, metrics, logger)
		if err := server.Start(ctx); err != nil {
			return err
		}
		defer server.Stop()
		stats = metrics
	}

	if cfg.WakeWord.StartupSound.Enabled {
		if err := alsa.PlayTone(ctx, cfg.Recording.OutputDevice,
			cfg.WakeWord.StartupSound.Frequency, cfg.WakeWord.StartupSound.Duration); err != nil {
			logger.Warn("startup sound failed", "error", err)
		}
	}

	assistant := application.NewAssistant(detector, recorder, stt, chatter, speaker, player, stats, logger)

	logger.Info("starting voice assistant",
		"keyword", cfg.WakeWord.KeywordPath,
		"ollama_model", cfg.Ollama.Model,
	)

	if err := assistant.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
