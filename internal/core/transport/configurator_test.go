package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildSettings 测试设置计算
func TestBuildSettings(t *testing.T) {
	t.Run("默认值", func(t *testing.T) {
		s, err := BuildSettings("", 0, 2)
		require.NoError(t, err)
		assert.Equal(t, DefaultBindAddress, s.BindAddress)
		assert.Equal(t, DefaultPort, s.Port)
		assert.Equal(t, 3, s.MaxConnections)
	})

	t.Run("显式端口保留", func(t *testing.T) {
		s, err := BuildSettings("192.168.1.5", 12345, 8)
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.5", s.BindAddress)
		assert.Equal(t, 12345, s.Port)
		assert.Equal(t, 9, s.MaxConnections)
	})

	t.Run("无效参数", func(t *testing.T) {
		_, err := BuildSettings("", -1, 2)
		assert.ErrorIs(t, err, ErrInvalidConfig)

		_, err = BuildSettings("", 65536, 2)
		assert.ErrorIs(t, err, ErrInvalidConfig)

		_, err = BuildSettings("", 7777, -1)
		assert.ErrorIs(t, err, ErrInvalidConfig)

		_, err = BuildSettings("host.example", 7777, 2)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
