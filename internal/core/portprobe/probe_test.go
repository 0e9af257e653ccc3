package portprobe

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIsPortInUse 测试真实套接字
func TestIsPortInUse(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port

	p := New()
	assert.True(t, p.IsPortInUse(port), "已绑定的端口应被检测到")

	require.NoError(t, conn.Close())
	assert.False(t, p.IsPortInUse(port), "释放后的端口不应被检测到")

	t.Log("✅ 端口探测测试通过")
}

// TestIsPortInUse_InvalidPort 测试无效端口
func TestIsPortInUse_InvalidPort(t *testing.T) {
	p := New()
	assert.False(t, p.IsPortInUse(0))
	assert.False(t, p.IsPortInUse(-1))
	assert.False(t, p.IsPortInUse(70000))
}

// TestBindProbe 测试绑定探测
func TestBindProbe(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port

	assert.True(t, bindProbe(port))
	require.NoError(t, conn.Close())
	assert.False(t, bindProbe(port))
}
