package presenter

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-lanlink/internal/core/eventbus"
	"github.com/dep2p/go-lanlink/pkg/types"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, s)
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) ShowStatus(text string)                    { r.add("status:" + text) }
func (r *recorder) ShowCountdown(msg string, _ time.Duration) { r.add("countdown:" + msg) }
func (r *recorder) ShowHostCode(addr string)                  { r.add("code:" + addr) }
func (r *recorder) HideStatus()                               { r.add("hide") }

// TestConsole 测试终端输出
func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.ShowStatus("Connecting...")
	assert.True(t, c.Visible())
	c.ShowCountdown("Session full", 4500*time.Millisecond)
	c.ShowHostCode("203.0.113.7:7777")
	c.HideStatus()
	assert.False(t, c.Visible())

	out := buf.String()
	assert.Contains(t, out, "Connecting...")
	assert.Contains(t, out, "Session full (5s)")
	assert.Contains(t, out, "203.0.113.7:7777")
}

// TestMulti 测试转发
func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := Multi{a, b, Log{}}

	m.ShowStatus("x")
	m.ShowCountdown("full", time.Second)
	m.ShowHostCode("1.2.3.4:7777")
	m.HideStatus()

	want := []string{"status:x", "countdown:full", "code:1.2.3.4:7777", "hide"}
	assert.Equal(t, want, a.Calls())
	assert.Equal(t, want, b.Calls())
}

// TestBridge 测试客户端事件转换
func TestBridge(t *testing.T) {
	bus := eventbus.NewBus()
	rec := &recorder{}
	bridge := NewBridge(bus, rec)
	require.NoError(t, bridge.Start())
	require.NoError(t, bridge.Start())

	notice, err := bus.Emitter(new(types.EvtNoticeReceived))
	require.NoError(t, err)
	closed, err := bus.Emitter(new(types.EvtClientDisconnected))
	require.NoError(t, err)

	require.NoError(t, notice.Emit(types.EvtNoticeReceived{
		BaseEvent: types.NewBaseEvent("client.notice"),
		Notice:    types.Notice{Message: "Session full", Countdown: 5 * time.Second},
	}))
	require.Eventually(t, func() bool { return len(rec.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, closed.Emit(types.EvtClientDisconnected{
		BaseEvent: types.NewBaseEvent("client.disconnected"),
		Reason:    types.DisconnectReasonSessionFull,
	}))
	require.Eventually(t, func() bool { return len(rec.Calls()) == 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{
		"countdown:Session full",
		"status:Disconnected from host: session-full",
	}, rec.Calls())

	bridge.Stop()
	bridge.Stop()
}
