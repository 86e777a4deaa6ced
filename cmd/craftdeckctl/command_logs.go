package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLogsCmd() *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the server's latest log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			path := "/server/logs"
			if level != "" {
				path += "?level=" + level
			}

			var lines []struct {
				Text     string `json:"text"`
				Severity string `json:"severity"`
			}
			if err := newClient().get(ctx, path, &lines); err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Println(line.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "minimum severity to show (info, warning, error)")
	return cmd
}
