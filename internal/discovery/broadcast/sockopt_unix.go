//go:build !windows

package broadcast

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// socketControl 设置 SO_REUSEADDR 与 SO_BROADCAST
func socketControl(_, _ string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			opErr = fmt.Errorf("set SO_REUSEADDR: %w", err)
			return
		}
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
			opErr = fmt.Errorf("set SO_BROADCAST: %w", err)
		}
	})
	if err != nil {
		return err
	}
	return opErr
}
