package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Recording RecordingConfig `yaml:"recording"`
	WakeWord  WakeWordConfig  `yaml:"porcupine"`
	Whisper   WhisperConfig   `yaml:"whisper"`
	Ollama    OllamaConfig    `yaml:"ollama"`
	TTS       TTSConfig       `yaml:"tts"`
	Music     MusicConfig     `yaml:"music"`
	Status    StatusConfig    `yaml:"status"`
	Log       LogConfig       `yaml:"log"`
}

type RecordingConfig struct {
	InputDevice      string  `yaml:"input_device"`
	OutputDevice     string  `yaml:"output_device"`
	Rate             int     `yaml:"rate"`
	Channels         int     `yaml:"channels"`
	ChunkSize        int     `yaml:"chunk_size"`
	MaxSeconds       float64 `yaml:"max_seconds"`
	SilenceSeconds   float64 `yaml:"silence_seconds"`
	SilenceThreshold int     `yaml:"silence_threshold"`
}

type WakeWordConfig struct {
	AccessKey       string             `yaml:"access_key"`
	KeywordPath     string             `yaml:"keyword_path"`
	Sensitivity     float64            `yaml:"sensitivity"`
	ActivationSound string             `yaml:"activation_sound"`
	StartupSound    StartupSoundConfig `yaml:"startup_sound"`
}

type StartupSoundConfig struct {
	Enabled   bool `yaml:"enabled"`
	Frequency int  `yaml:"frequency"`
	Duration  int  `yaml:"duration"`
}

type WhisperConfig struct {
	ServerURL string `yaml:"server_url"`
	Model     string `yaml:"model"`
	Language  string `yaml:"language"`
}

type OllamaConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

type TTSConfig struct {
	Voice string `yaml:"voice"`
	Rate  int    `yaml:"rate"`
}

type MusicConfig struct {
	Directory string `yaml:"directory"`
	Player    string `yaml:"player"`
}

type StatusConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Recording.Rate == 0 {
		c.Recording.Rate = 16000
	}
	if c.Recording.Channels == 0 {
		c.Recording.Channels = 1
	}
	if c.Recording.ChunkSize == 0 {
		c.Recording.ChunkSize = 512
	}
	if c.Recording.MaxSeconds == 0 {
		c.Recording.MaxSeconds = 10
	}
	if c.Recording.SilenceSeconds == 0 {
		c.Recording.SilenceSeconds = 1
	}
	if c.Recording.SilenceThreshold == 0 {
		c.Recording.SilenceThreshold = 500
	}
	if c.WakeWord.Sensitivity == 0 {
		c.WakeWord.Sensitivity = 0.5
	}
	if c.WakeWord.StartupSound.Frequency == 0 {
		c.WakeWord.StartupSound.Frequency = 1000
	}
	if c.WakeWord.StartupSound.Duration == 0 {
		c.WakeWord.StartupSound.Duration = 1
	}
	if c.Whisper.ServerURL == "" {
		c.Whisper.ServerURL = "http://127.0.0.1:8080"
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "base"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Ollama.Host == "" {
		c.Ollama.Host = "127.0.0.1"
	}
	if c.Ollama.Port == 0 {
		c.Ollama.Port = 11434
	}
	if c.Ollama.Endpoint == "" {
		c.Ollama.Endpoint = "/api/chat"
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = "llama2"
	}
	if c.TTS.Rate == 0 {
		c.TTS.Rate = 150
	}
	if c.Music.Directory == "" {
		c.Music.Directory = "./music"
	}
	if c.Music.Player == "" {
		c.Music.Player = "mpg123"
	}
	if c.Status.Addr == "" {
		c.Status.Addr = ":8090"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) validate() error {
	if c.WakeWord.Sensitivity < 0 || c.WakeWord.Sensitivity > 1 {
		return fmt.Errorf("porcupine.sensitivity must be in [0,1], got %v", c.WakeWord.Sensitivity)
	}
	if c.Recording.Rate < 0 || c.Recording.Channels < 0 {
		return fmt.Errorf("recording.rate and recording.channels must not be negative")
	}
	return nil
}
