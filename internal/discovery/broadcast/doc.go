// Package broadcast 实现基于 UDP 广播的局域网主机发现
//
// 线路格式（ASCII）：
//
//	请求: DISCOVERY_REQUEST_v1
//	响应: HOST_v1|<十进制端口>
//
// 请求以广播发送到发现端口，响应以单播回到请求方的源地址。
// 没有认证与加密，信任本地广播域。
//
// 响应方对每个请求方 IP 限速，限速器保存在 LRU 缓存中。
package broadcast
