package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-lanlink/internal/core/netaddr"
	"github.com/dep2p/go-lanlink/internal/core/portprobe"
)

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe [address]",
		Short: "检查会话端口是否被占用并列出候选地址",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			port := cfg.Session.EffectivePort()
			out := cmd.OutOrStdout()

			inUse := portprobe.New().IsPortInUse(port)
			fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", "端口")), valueStyle.Render(fmt.Sprint(port)))
			fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", "已占用")), valueStyle.Render(fmt.Sprint(inUse)))

			explicit := cfg.Session.ExplicitRemoteAddress
			if len(args) == 1 {
				explicit = args[0]
			}
			fmt.Fprintln(out, labelStyle.Render("  候选地址"))
			for i, c := range netaddr.Candidates(explicit) {
				fmt.Fprintf(out, "    %d. %s\n", i+1, c)
			}
			return nil
		},
	}
}
