// Package quic 实现基于 quic-go 的会话传输
//
// 每个连接上有一条控制流，由客户端打开：
//
//	client -> host : hello{instance}
//	host -> client : welcome{peer_id}
//	host -> client : notice{message, countdown_ms} ...
//
// 控制消息为 structpb.Struct 的 protobuf 编码，前置 4 字节大端长度。
// 主机通过比较 hello 中的 instance 判断是否为自己的回环客户端。
//
// 断开原因以 QUIC 应用错误码的形式发送（types.DisconnectReason 的数值）。
// 超过硬上限的连接在握手后立即以 SessionFull 关闭。
package quic
