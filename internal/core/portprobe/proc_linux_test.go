//go:build linux

package portprobe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const udpFixture = `   sl  local_address rem_address   st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode ref pointer drops
  123: 00000000:1E61 00000000:0000 07 00000000:00000000 00:00000000 00000000  1000        0 41234 2 0000000000000000 0
  456: 0100007F:0035 00000000:0000 07 00000000:00000000 00:00000000 00000000   101        0 17855 2 0000000000000000 0
`

const udp6Fixture = `  sl  local_address                         remote_address                        st tx_queue rx_queue tr tm->when retrnsmt   uid  timeout inode ref pointer drops
   77: 00000000000000000000000000000000:BB9D 00000000000000000000000000000000:0000 07 00000000:00000000 00:00000000 00000000     0        0 22222 2 0000000000000000 0
`

func writeFixture(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, "net")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// TestListUDPPorts 测试解析 /proc/net/udp
func TestListUDPPorts(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "udp", udpFixture)
	writeFixture(t, root, "udp6", udp6Fixture)

	p := NewWithProcRoot(root)
	ports, err := p.listUDPPorts()
	require.NoError(t, err)

	assert.Contains(t, ports, 7777)
	assert.Contains(t, ports, 53)
	assert.Contains(t, ports, 48029)
	assert.Len(t, ports, 3)

	assert.True(t, p.IsPortInUse(7777))
	assert.False(t, p.IsPortInUse(7778))
}

// TestListUDPPorts_OnlyIPv4 测试缺少 udp6 文件
func TestListUDPPorts_OnlyIPv4(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "udp", udpFixture)

	ports, err := NewWithProcRoot(root).listUDPPorts()
	require.NoError(t, err)
	assert.Contains(t, ports, 7777)
}

// TestListUDPPorts_Unreadable 测试 /proc 不可读时退回绑定探测
func TestListUDPPorts_Unreadable(t *testing.T) {
	p := NewWithProcRoot(filepath.Join(t.TempDir(), "missing"))
	_, err := p.listUDPPorts()
	assert.Error(t, err)

	// 退回绑定探测，空闲端口为 false
	assert.False(t, p.IsPortInUse(1))
}

// TestParseLocalPort 测试端口字段解析
func TestParseLocalPort(t *testing.T) {
	port, ok := parseLocalPort("0100007F:1E61")
	assert.True(t, ok)
	assert.Equal(t, 7777, port)

	_, ok = parseLocalPort("garbage")
	assert.False(t, ok)

	_, ok = parseLocalPort("00000000:0000")
	assert.False(t, ok)
}
