package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResponse_RoundTrip 测试所有有效端口的编解码
func TestResponse_RoundTrip(t *testing.T) {
	for port := 1; port <= 65535; port++ {
		got, err := ParseResponse(EncodeResponse(port))
		if err != nil || got != port {
			t.Fatalf("端口 %d 往返失败: got=%d err=%v", port, got, err)
		}
	}

	t.Log("✅ 响应往返测试通过")
}

// TestParseResponse_Malformed 测试格式错误的响应
func TestParseResponse_Malformed(t *testing.T) {
	cases := []string{
		"",
		"HOST_v1|",
		"HOST_v1|0",
		"HOST_v1|65536",
		"HOST_v1|-1",
		"HOST_v1|+80",
		"HOST_v1|12a",
		"HOST_v1|999999",
		"HOST_v2|7777",
		"DISCOVERY_REQUEST_v1",
	}
	for _, c := range cases {
		t.Run(c, func(t *testing.T) {
			_, err := ParseResponse([]byte(c))
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

// TestIsRequest 测试请求识别
func TestIsRequest(t *testing.T) {
	assert.True(t, IsRequest(EncodeRequest()))
	assert.True(t, IsRequest([]byte("DISCOVERY_REQUEST_v1\n")))
	assert.False(t, IsRequest([]byte("DISCOVERY_REQUEST_v2")))
	assert.False(t, IsRequest(EncodeResponse(7777)))
}

// TestEncodeResponse 测试响应格式
func TestEncodeResponse(t *testing.T) {
	require.Equal(t, "HOST_v1|7777", string(EncodeResponse(7777)))
}
