// Package relay 实现默认的驱逐钩子
//
// 会话已满时，主机先通过传输层的控制流把提示消息发给溢出的对端，
// 对端据此显示倒计时；宽限期结束后再以 SessionFull 原因断开。
//
//	┌──────────────┐  Notify(notice)   ┌──────────────┐
//	│  admission   │ ───────────────▶ │    client    │
//	│    relay     │  grace ...        │ (countdown)  │
//	│              │ ───────────────▶ │              │
//	└──────────────┘  Disconnect       └──────────────┘
//
// 每个对端同一时间只有一个待执行的断开；对端提前离开时断开变为空操作。
package relay
