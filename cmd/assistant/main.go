package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "assistant",
		Short:        "Voice assistant for Raspberry Pi",
		Long:         "Wake-word voice assistant that transcribes commands with whisper.cpp, answers through Ollama and plays local music.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")

	root.AddCommand(newRunCmd())
	root.AddCommand(newProbeCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
