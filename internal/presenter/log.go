package presenter

import (
	"time"

	"github.com/dep2p/go-lanlink/internal/util/logger"
	pkgif "github.com/dep2p/go-lanlink/pkg/interfaces"
)

var log = logger.Logger("presenter")

var _ pkgif.Presenter = Log{}

// Log 把展示调用写入日志
type Log struct{}

// ShowStatus 记录状态
func (Log) ShowStatus(text string) {
	log.Info("状态", "text", text)
}

// ShowCountdown 记录倒计时提示
func (Log) ShowCountdown(message string, countdown time.Duration) {
	log.Warn("倒计时提示", "message", message, "countdown", countdown)
}

// ShowHostCode 记录主机地址
func (Log) ShowHostCode(address string) {
	log.Info("主机地址", "address", address)
}

// HideStatus 无操作
func (Log) HideStatus() {}

// Multi 转发给多个展示钩子
type Multi []pkgif.Presenter

var _ pkgif.Presenter = Multi(nil)

// ShowStatus 转发
func (m Multi) ShowStatus(text string) {
	for _, p := range m {
		p.ShowStatus(text)
	}
}

// ShowCountdown 转发
func (m Multi) ShowCountdown(message string, countdown time.Duration) {
	for _, p := range m {
		p.ShowCountdown(message, countdown)
	}
}

// ShowHostCode 转发
func (m Multi) ShowHostCode(address string) {
	for _, p := range m {
		p.ShowHostCode(address)
	}
}

// HideStatus 转发
func (m Multi) HideStatus() {
	for _, p := range m {
		p.HideStatus()
	}
}
