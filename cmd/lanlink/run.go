package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dep2p/go-lanlink"
	"github.com/dep2p/go-lanlink/internal/presenter"
	"github.com/dep2p/go-lanlink/pkg/types"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Bold(true)
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "判定角色并建立会话，直到收到退出信号",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, func(ctx context.Context, s *lanlink.Session) (*types.SessionInfo, error) {
				return s.Resolve(ctx)
			})
		},
	}
}

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <address>",
		Short: "以客户端身份加入指定主机（host 或 host:port）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, func(ctx context.Context, s *lanlink.Session) (*types.SessionInfo, error) {
				return s.Join(ctx, args[0])
			})
		},
	}
}

// runSession 启动会话并保持运行
func runSession(cmd *cobra.Command, establish func(context.Context, *lanlink.Session) (*types.SessionInfo, error)) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "📦 %s\n", lanlink.VersionInfo())
	log.Info("启动 lanlink", "version", lanlink.Version, "commit", lanlink.GitCommit, "buildDate", lanlink.BuildDate)

	s, err := lanlink.New(
		lanlink.WithConfig(cfg),
		lanlink.WithPresenter(presenter.Multi{presenter.NewConsole(out), presenter.Log{}}),
	)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Start(ctx); err != nil {
		return err
	}

	info, err := establish(ctx, s)
	if err := sessionOutcome(ctx, info, err); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	printSessionInfo(cmd, info)

	fmt.Fprintln(out, "会话已建立，按 Ctrl+C 退出")
	<-ctx.Done()
	fmt.Fprintln(out, "\n正在关闭会话...")
	return nil
}

// errNotEstablished 会话结束在非 Connected 状态
var errNotEstablished = errors.New("session not established")

// sessionOutcome 将建立会话的结果转换为命令的退出错误
//
// 用户中断视为正常退出；其他未进入 Connected 的结果都返回错误。
func sessionOutcome(ctx context.Context, info *types.SessionInfo, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	if info == nil || info.State != types.StateConnected {
		state := types.StateFailed
		if info != nil {
			state = info.State
		}
		return fmt.Errorf("%w: %s", errNotEstablished, state)
	}
	return nil
}

// printSessionInfo 打印会话信息
func printSessionInfo(cmd *cobra.Command, info *types.SessionInfo) {
	out := cmd.OutOrStdout()
	row := func(label string, value any) {
		fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", label)), valueStyle.Render(fmt.Sprint(value)))
	}
	row("角色", info.Role)
	row("端口", info.BoundPort)
	if info.Role == types.RoleHost {
		row("人数上限", info.MaxPeers)
	}
	if info.Role == types.RoleClient && info.Candidate != "" {
		row("主机地址", types.JoinHostPort(info.Candidate, info.BoundPort))
	}
	if info.PublicAddress != "" {
		row("公网地址", info.PublicAddress)
	}
	if info.FellBack {
		row("回退", "客户端失败后成为主机")
	}
}
