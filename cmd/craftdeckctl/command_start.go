package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server with the stored launch settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			var resp struct {
				State string `json:"state"`
			}
			if err := newClient().post(ctx, "/server/start", nil, &resp); err != nil {
				return err
			}
			fmt.Println(resp.State)
			return nil
		},
	}
	return cmd
}
