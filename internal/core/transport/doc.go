// Package transport 提供会话传输的公共部分
//
// 具体传输实现位于子包：
//   - quic: 基于 quic-go 的 UDP 传输
//   - mem:  进程内传输，用于测试与演示
//
// 本包包含：
//   - Configurator: 校验并应用绑定地址、端口与人数上限（幂等，不会开始监听）
//   - Emitters: 传输实现向事件总线发布连接事件的辅助结构
//   - 各传输实现共用的错误定义
//
// 硬上限为 maxPeers + OverflowHeadroom。多出的一个名额让超员的对端
// 可以先连上，由准入控制告知原因后再断开。
package transport
