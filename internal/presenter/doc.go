// Package presenter 提供展示钩子的实现
//
//   - Console：使用 lipgloss 渲染到终端
//   - Log：写入结构化日志
//   - Multi：同时转发给多个展示钩子
//   - Bridge：把客户端侧的传输事件（提示、断开）转换为展示调用
package presenter
