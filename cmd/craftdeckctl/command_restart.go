package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRestartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Ask the server to stop and start again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			var resp struct {
				State          string `json:"state"`
				RestartPending bool   `json:"restart_pending"`
			}
			if err := newClient().post(ctx, "/server/restart", nil, &resp); err != nil {
				return err
			}
			if resp.RestartPending {
				fmt.Println("restart requested")
			} else {
				fmt.Println(resp.State)
			}
			return nil
		},
	}
	return cmd
}
