// Package portprobe 探测本机 UDP 端口是否已被占用
//
// Linux 上读取 /proc/net/udp 与 /proc/net/udp6 列出全部 UDP 套接字；
// 其他平台或 /proc 不可读时，退回到尝试绑定该端口。
//
// 结果只是启发式信号：端口被占用并不代表占用者就是本程序的主机，
// 调用方只应把它当作"倾向于以客户端身份加入"的提示。
package portprobe
