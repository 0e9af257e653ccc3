package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/pkg/types"
)

// TestLoadConfig_FlagsOverrideFile 命令行参数覆盖配置文件
func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanlink.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"session":{"port":9000,"max_peers":6}}`), 0o600))

	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--config", path, "--max-peers", "3", "--discovery", "mdns"}))

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Session.Port)
	assert.Equal(t, 3, cfg.Session.MaxPeers)
	assert.True(t, cfg.Discovery.Enable)
	assert.Equal(t, config.DiscoveryModeMDNS, cfg.Discovery.Mode)

	t.Log("✅ 命令行参数覆盖配置文件")
}

// TestLoadConfig_Defaults 无参数时使用默认配置
func TestLoadConfig_Defaults(t *testing.T) {
	opts = flags{}
	root := newRootCmd()
	require.NoError(t, root.ParseFlags(nil))

	cfg, err := loadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPort, cfg.Session.Port)
	assert.False(t, cfg.Discovery.Enable)

	t.Log("✅ 默认配置正确")
}

// TestLoadConfig_InvalidMode 无效发现模式被拒绝
func TestLoadConfig_InvalidMode(t *testing.T) {
	root := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--discovery", "carrier-pigeon"}))

	_, err := loadConfig(root)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

// TestRootCmd_Subcommands 子命令齐全
func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, n := range []string{"run", "join", "probe", "discover"} {
		assert.True(t, names[n], n)
	}
}

// TestSessionOutcome 未进入 Connected 的会话以非零状态退出
func TestSessionOutcome(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, sessionOutcome(ctx, &types.SessionInfo{State: types.StateConnected}, nil))

	err := sessionOutcome(ctx, &types.SessionInfo{State: types.StateFailed}, nil)
	assert.ErrorIs(t, err, errNotEstablished)
	assert.Contains(t, err.Error(), types.StateFailed.String())

	failure := errors.New("could not start host")
	assert.ErrorIs(t, sessionOutcome(ctx, &types.SessionInfo{State: types.StateFailed}, failure), failure)
	assert.ErrorIs(t, sessionOutcome(ctx, nil, nil), errNotEstablished)

	// 用户中断
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.NoError(t, sessionOutcome(canceled, &types.SessionInfo{State: types.StateStopped}, nil))
	assert.NoError(t, sessionOutcome(ctx, nil, context.Canceled))
	t.Log("✅ 失败的会话返回错误")
}
