package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/discovery"
)

const defaultFindTimeout = 2 * time.Second

func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "在局域网中查找正在主持会话的主机",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Discovery.Mode == "" {
				cfg.Discovery.Mode = config.DiscoveryModeBroadcast
			}

			d, err := discovery.New(cfg.Discovery)
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()

			timeout := cfg.Discovery.FindTimeout.Duration()
			if timeout <= 0 {
				timeout = defaultFindTimeout
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			out := cmd.OutOrStdout()
			host, err := d.Find(ctx)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
					fmt.Fprintln(out, "未发现主机")
					return nil
				}
				return err
			}
			fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", "主机")), valueStyle.Render(host.Address()))
			return nil
		},
	}
}
