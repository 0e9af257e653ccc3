// Package publicaddr 解析本机的公网地址
//
// 依次查询 HTTP 地址回显服务（默认 https://api.ipify.org 优先），
// 全部失败后向 STUN 服务器发送 Binding 请求。
//
// 结果只用于展示给用户（主机地址），不参与连接逻辑。
// 任何失败都返回 ("", false)，成功结果按 CacheTTL 缓存。
package publicaddr
