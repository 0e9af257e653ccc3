package interfaces

// PortProbe 端口占用探测
//
// 结果只是启发式信号：true 表示倾向于以客户端身份加入。
type PortProbe interface {
	IsPortInUse(port int) bool
}
