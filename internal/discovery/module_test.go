package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-lanlink/config"
	"github.com/dep2p/go-lanlink/internal/discovery/broadcast"
	"github.com/dep2p/go-lanlink/internal/discovery/mdns"
)

// TestNew_SelectsBackend 测试按模式选择实现
func TestNew_SelectsBackend(t *testing.T) {
	cfg := config.DefaultDiscoveryConfig()

	d, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &broadcast.Discovery{}, d)

	cfg.Mode = config.DiscoveryModeMDNS
	d, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &mdns.Discovery{}, d)

	cfg.Mode = "carrier-pigeon"
	_, err = New(cfg)
	assert.Error(t, err)

	t.Log("✅ 发现实现选择正确")
}

// TestProvideDiscovery_Disabled 测试未启用时不提供实现
func TestProvideDiscovery_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Discovery.Enable = false

	res, err := ProvideDiscovery(cfg)
	require.NoError(t, err)
	assert.Nil(t, res.Discovery)

	cfg.Discovery.Enable = true
	res, err = ProvideDiscovery(cfg)
	require.NoError(t, err)
	assert.NotNil(t, res.Discovery)

	t.Log("✅ 未启用时不提供发现实现")
}
