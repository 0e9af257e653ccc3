// Package eventbus 实现进程内事件总线
//
// 事件按 Go 类型路由。传输层、编排器、准入控制之间只通过事件通信，
// 后台任务不会直接调用编排器。
//
// 投递语义：
//   - 非阻塞：订阅者缓冲区满时丢弃事件并记录慢消费者告警
//   - 有状态发射器保留最后一个事件，后来的订阅者会立即收到
//   - Emit 校验事件类型，必须与发射器登记的类型一致
package eventbus
