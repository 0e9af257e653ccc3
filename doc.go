// Package lanlink 局域网会话建立
//
// 一个进程只有一个会话。Resolve 决定本进程是主机还是客户端：
//
//   - 配置了显式远端地址：以客户端身份连接该地址
//   - 会话端口已被本机占用：以客户端身份连接回环地址
//   - 启用了局域网发现且找到主机：以客户端身份连接该主机
//   - 其余情况：启动监听成为主机，并以回环客户端加入自己的会话
//
// 主机还负责人数控制：超出上限的对端会先收到提示，倒计时后被断开。
//
// 基本用法：
//
//	s, err := lanlink.New(lanlink.WithPort(7777))
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//	info, err := s.Resolve(ctx)
package lanlink
