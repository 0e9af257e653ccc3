// Package mdns 实现基于多播 DNS 的局域网主机发现
//
// 与广播发现互为替代，实现同一个 HostDiscovery 接口：
//
//   - Advertise：主机以 "<instance>.<service>.local." 注册服务，端口即会话端口，
//     TXT 记录携带实例标识，便于查询方过滤掉自己；
//   - Find：按轮查询服务，返回第一个带 IPv4 地址的条目，ctx 结束时返回 ErrNoHostFound。
//
// 使用示例：
//
//	d := mdns.New(cfg.Discovery)
//	defer d.Close()
//	if err := d.Advertise(ctx, 7777); err != nil {
//	    return err
//	}
package mdns
