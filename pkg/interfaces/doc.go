// Package interfaces 定义 lanlink 的公共接口
//
// 一个接口文件对应一个实现目录：
//   - transport.go      - 会话传输（internal/core/transport/...）
//   - portprobe.go      - 端口占用探测（internal/core/portprobe）
//   - publicaddr.go     - 公网地址解析（internal/core/publicaddr）
//   - discovery.go      - 局域网主机发现（internal/discovery/...）
//   - eventbus.go       - 事件总线（internal/core/eventbus）
//
// 外部协作者（由嵌入方实现）：
//   - presenter.go      - 展示钩子
//   - evictor.go        - 驱逐钩子
package interfaces
