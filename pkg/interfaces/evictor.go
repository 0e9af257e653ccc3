package interfaces

import (
	"time"

	"github.com/dep2p/go-lanlink/pkg/types"
)

// Evictor 驱逐钩子
type Evictor interface {
	// NotifyAndDisconnect 向对端发送提示，并在 grace 之后断开
	NotifyAndDisconnect(peer types.PeerID, message string, grace time.Duration) error
}
