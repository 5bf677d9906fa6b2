package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"voice-assistant/internal/probe"
)

func newProbeCmd() *cobra.Command {
	var (
		inputDevice string
		duration    int
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Diagnose audio hardware",
		Long:  "Enumerates playback, recording and USB audio devices and runs a record-and-playback self-test. All findings are diagnostic; the command always exits 0.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Diagnostics go to stdout; keep the log quiet unless asked.
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if os.Getenv("DEBUG") != "" {
				logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}

			p := probe.New(cmd.OutOrStdout(), logger)
			p.PreferredDevice = inputDevice
			p.RecordSeconds = duration
			return p.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&inputDevice, "input-device", probe.DefaultPreferredDevice, "hardware device to try first for recording")
	cmd.Flags().IntVar(&duration, "duration", probe.DefaultRecordSeconds, "self-test recording length in seconds")

	return cmd
}
