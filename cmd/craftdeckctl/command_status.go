package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the server state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			var st serverState
			if err := newClient().get(ctx, "/server/state", &st); err != nil {
				return err
			}

			fmt.Printf("state:   %s\n", st.State)
			if st.Pid != 0 {
				fmt.Printf("pid:     %d\n", st.Pid)
			}
			if st.UptimeSeconds > 0 {
				fmt.Printf("uptime:  %s\n", (time.Duration(st.UptimeSeconds) * time.Second).String())
			}
			if st.RestartPending {
				fmt.Println("restart: pending")
			}
			return nil
		},
	}
	return cmd
}
