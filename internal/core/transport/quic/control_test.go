package quic

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestControl_RoundTrip 测试控制消息编解码
func TestControl_RoundTrip(t *testing.T) {
	var buf bytes.Buffer

	in := controlMessage{
		Kind:      kindNotice,
		Message:   "Session full — please try again later",
		Countdown: 5 * time.Second,
	}
	require.NoError(t, writeControl(&buf, in))
	require.NoError(t, writeControl(&buf, controlMessage{Kind: kindHello, Instance: "abc"}))

	out, err := readControl(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	hello, err := readControl(&buf)
	require.NoError(t, err)
	assert.Equal(t, kindHello, hello.Kind)
	assert.Equal(t, "abc", hello.Instance)
}

// TestControl_FrameTooLarge 测试超长帧
func TestControl_FrameTooLarge(t *testing.T) {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], maxFrameSize+1)

	_, err := readControl(bytes.NewReader(hdr[:]))
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

// TestControl_Truncated 测试截断的帧
func TestControl_Truncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeControl(&buf, controlMessage{Kind: kindWelcome, PeerID: "p"}))
	data := buf.Bytes()

	_, err := readControl(bytes.NewReader(data[:len(data)-1]))
	assert.Error(t, err)
}
