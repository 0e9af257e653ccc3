package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dep2p/go-lanlink/pkg/types"
)

// TestDecide 测试驱逐判断
func TestDecide(t *testing.T) {
	remote := types.ConnectedPeer{ID: "remote"}
	local := types.ConnectedPeer{ID: "local", IsLocal: true}

	tests := []struct {
		name     string
		peer     types.ConnectedPeer
		numPeers int
		maxPeers int
		want     Action
	}{
		{"未满", remote, 1, 2, ActionAdmit},
		{"恰好满", remote, 2, 2, ActionAdmit},
		{"远端溢出", remote, 3, 2, ActionEvictRemote},
		{"本机溢出", local, 3, 2, ActionEvictLocal},
		{"上限为零", remote, 1, 0, ActionEvictRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.peer, tt.numPeers, tt.maxPeers)
			assert.Equal(t, tt.want, d.Action)
			assert.Equal(t, tt.want != ActionAdmit, d.Overflow())
		})
	}
}
