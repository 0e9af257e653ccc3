package interfaces

import "time"

// Presenter 展示钩子
//
// 核心逻辑只通过该接口输出用户可见的状态，不关心具体的展示方式。
type Presenter interface {
	// ShowStatus 显示状态文本
	ShowStatus(text string)

	// ShowCountdown 显示带倒计时的提示
	ShowCountdown(message string, countdown time.Duration)

	// ShowHostCode 显示可供他人加入的地址
	ShowHostCode(address string)

	// HideStatus 隐藏状态
	HideStatus()
}
