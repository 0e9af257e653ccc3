// Package orchestrator 实现连接编排状态机
//
// 编排器在每次进程启动时决定本机成为会话主机还是加入已有会话的客户端，
// 并负责客户端的重试、超时与（可选的）回退为主机。
//
// # 状态
//
//	Idle → ProbingRole ─┬─ StartingHost → WaitingHostReady → StartingLoopbackClient → Connected
//	                    └─ StartingClient ─┬─ Connected
//	                                       └─ Failed ─▶ FallbackToHost → StartingHost → ...（仅一次）
//
// 任何时刻发起新的 Resolve/Join 或调用 Stop 都会取消正在进行的序列，
// 等待它退出后再继续；被取消的序列以 Stopped 结束，不视为失败。
//
// # 角色判定
//
//  1. 配置了显式远端地址：只连接该地址
//  2. 本机端口已被占用且允许自动加入：只连接 127.0.0.1
//  3. 启用了局域网发现且发现了主机：连接该主机
//  4. 否则成为主机
//
// 端口占用只是启发式信号，本机其他程序占用同一端口时也会走客户端路径。
package orchestrator
