package main

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newCmdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmd <command...>",
		Short: "Send a console command to the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			body := map[string]string{"command": strings.Join(args, " ")}
			return newClient().post(ctx, "/server/command", body, nil)
		},
	}
	return cmd
}
