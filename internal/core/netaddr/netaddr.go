// Package netaddr 构造客户端连接的候选地址
//
// 候选地址顺序：
//  1. 显式地址（如果有）
//  2. 127.0.0.1
//  3. 本机每个 IPv4 接口地址
//  4. 由第一个本机地址推测的网关：a.b.c.1 与 a.b.c.254
//
// 列表无重复，保留首次出现的顺序。
package netaddr

import (
	"net"
	"strconv"
	"strings"

	"github.com/dep2p/go-lanlink/internal/util/logger"
)

var log = logger.Logger("core.netaddr")

// Loopback IPv4 回环地址
const Loopback = "127.0.0.1"

// BuildCandidates 构造候选地址列表
func BuildCandidates(explicit string, locals []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(locals)+4)

	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return
		}
		if _, ok := seen[addr]; ok {
			return
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}

	add(explicit)
	add(Loopback)
	for _, l := range locals {
		add(l)
	}
	if len(locals) > 0 {
		for _, g := range GatewayGuesses(locals[0]) {
			add(g)
		}
	}
	return out
}

// Candidates 使用本机接口地址构造候选列表
func Candidates(explicit string) []string {
	return BuildCandidates(explicit, LocalIPv4Addresses())
}

// GatewayGuesses 由 IPv4 地址推测 a.b.c.1 与 a.b.c.254
//
// 非 IPv4 地址返回 nil。
func GatewayGuesses(addr string) []string {
	ip := net.ParseIP(strings.TrimSpace(addr)).To4()
	if ip == nil {
		return nil
	}
	prefix := strconv.Itoa(int(ip[0])) + "." + strconv.Itoa(int(ip[1])) + "." + strconv.Itoa(int(ip[2])) + "."
	return []string{prefix + "1", prefix + "254"}
}

// LocalIPv4Addresses 返回本机已启用的非回环 IPv4 地址
//
// 链路本地地址（169.254/16）不参与。
func LocalIPv4Addresses() []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Debug("获取网络接口失败", "err", err)
		return nil
	}

	var out []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			log.Debug("获取接口地址失败", "iface", iface.Name, "err", err)
			continue
		}
		for _, a := range addrs {
			ip := ipFromAddr(a).To4()
			if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
				continue
			}
			out = append(out, ip.String())
		}
	}
	return out
}

// SplitHostPort 拆分 "host" 或 "host:port"，没有端口时使用 defaultPort
func SplitHostPort(addr string, defaultPort int) (string, int) {
	addr = strings.TrimSpace(addr)
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return strings.Trim(addr, "[]"), defaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return host, defaultPort
	}
	return host, port
}

func ipFromAddr(a net.Addr) net.IP {
	switch v := a.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	default:
		return nil
	}
}
