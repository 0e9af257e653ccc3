package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_IsTerminal(t *testing.T) {
	terminal := []State{StateConnected, StateFailed, StateStopped}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), s.String())
	}

	nonTerminal := []State{StateIdle, StateProbingRole, StateStartingHost, StateWaitingHostReady,
		StateStartingLoopbackClient, StateStartingClient, StateFallbackToHost}
	for _, s := range nonTerminal {
		assert.False(t, s.IsTerminal(), s.String())
	}
}

func TestEnums_String(t *testing.T) {
	assert.Equal(t, "host", RoleHost.String())
	assert.Equal(t, "client", RoleClient.String())
	assert.Equal(t, "unresolved", RoleUnresolved.String())
	assert.Equal(t, "timed-out", OutcomeTimedOut.String())
	assert.Equal(t, "session-full", DisconnectReasonSessionFull.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestJoinHostPort(t *testing.T) {
	assert.Equal(t, "127.0.0.1:7777", JoinHostPort("127.0.0.1", 7777))
	assert.Equal(t, "[::1]:7777", JoinHostPort("::1", 7777))

	a := ConnectionAttempt{Candidate: "10.0.0.2", Port: 9000}
	assert.Equal(t, "10.0.0.2:9000", a.Address())
}

func TestPeerID_ShortString(t *testing.T) {
	assert.Equal(t, "abc", PeerID("abc").ShortString())
	assert.Equal(t, "12345678", PeerID("1234567890").ShortString())
	assert.True(t, PeerID("").IsEmpty())
}
