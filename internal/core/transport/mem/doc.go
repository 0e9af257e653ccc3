// Package mem 实现进程内会话传输
//
// 同一个 Network 上的多个 Transport 互相可见，行为与 UDP 传输一致：
//   - 主机侧有硬上限，超出时拒绝连接
//   - 主机加入自己的会话时对端被标记为本地连接
//   - 提示与断开原因会送达客户端
//
// 可达性由 Network 控制：回环地址总是可达，其他地址需要 AddAddress。
// 不可达的地址上连接会一直挂起，直到 StopClient（模拟超时）；
// 可达但没有监听器的端口立即返回 ErrConnectionRefused。
package mem
