package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dep2p/go-lanlink"
	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/util/logger"
)

var log = logger.Logger("cmd")

// flags 命令行参数
//
// 命令行参数覆盖配置文件中的同名字段，只对这次运行生效。
type flags struct {
	configFile string
	port       int
	maxPeers   int
	discovery  string
	noPublic   bool
	fallback   bool
	logLevel   string
	logFormat  string
}

var opts flags

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lanlink",
		Short:         "局域网会话：自动判定主机或客户端并建立连接",
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "配置文件路径（JSON）")
	pf.IntVarP(&opts.port, "port", "p", 0, "会话端口（0 = 使用配置）")
	pf.IntVar(&opts.maxPeers, "max-peers", 0, "人数上限（0 = 使用配置）")
	pf.StringVar(&opts.discovery, "discovery", "", "启用局域网发现：broadcast 或 mdns")
	pf.BoolVar(&opts.noPublic, "no-public-addr", false, "不查询公网地址")
	pf.BoolVar(&opts.fallback, "fallback", false, "客户端失败后回退为主机")
	pf.StringVar(&opts.logLevel, "log-level", "", "日志级别，例如 info 或 core.orchestrator=debug,info")
	pf.StringVar(&opts.logFormat, "log-format", "", "日志格式：text 或 json")

	root.AddCommand(
		newRunCmd(),
		newJoinCmd(),
		newProbeCmd(),
		newDiscoverCmd(),
	)
	return root
}

func versionString() string {
	if version != "" {
		return version
	}
	return lanlink.VersionInfo()
}

// loadConfig 加载配置文件并应用命令行覆盖
//
// 优先级：命令行参数 > 配置文件 > 默认值
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	if opts.configFile != "" {
		loaded, err := config.LoadFile(opts.configFile)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败: %w", err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("port") {
		cfg.Session.Port = opts.port
	}
	if f.Changed("max-peers") {
		cfg.Session.MaxPeers = opts.maxPeers
	}
	if f.Changed("discovery") {
		cfg.Discovery.Enable = opts.discovery != ""
		cfg.Discovery.Mode = opts.discovery
	}
	if f.Changed("no-public-addr") {
		cfg.PublicAddress.AutoDetect = !opts.noPublic
	}
	if f.Changed("fallback") {
		cfg.Connect.AutoFallbackToHost = opts.fallback
	}
	if f.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if f.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}

	fixed, err := config.ValidateAndFix(cfg)
	if err != nil {
		return nil, fmt.Errorf("配置错误: %w", err)
	}
	if fixed.Log.Level != "" || fixed.Log.Format != "" {
		logger.Apply(fixed.Log.Level, fixed.Log.Format)
	}
	return fixed, nil
}
