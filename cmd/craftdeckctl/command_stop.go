package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the server and wait for it to exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The stop endpoint blocks until the process exits, which
			// can take a while for a large world save.
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			var resp struct {
				State string `json:"state"`
			}
			if err := newClient().post(ctx, "/server/stop", nil, &resp); err != nil {
				return err
			}
			fmt.Println(resp.State)
			return nil
		},
	}
	return cmd
}
