//go:build linux

package portprobe

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// listUDPPorts 读取 /proc/net/udp{,6} 中全部本地端口
func (p *Probe) listUDPPorts() (map[int]struct{}, error) {
	ports := make(map[int]struct{})

	var lastErr error
	readable := 0
	for _, name := range []string{"udp", "udp6"} {
		if err := parseProcNet(filepath.Join(p.procRoot, "net", name), ports); err != nil {
			lastErr = err
			continue
		}
		readable++
	}
	if readable == 0 {
		return nil, lastErr
	}
	return ports, nil
}

// parseProcNet 解析一个 /proc/net/udp 格式的文件
//
// 行格式: sl local_address rem_address st ...，local_address 为 hexIP:hexPort。
func parseProcNet(path string, ports map[int]struct{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Scan() // 表头

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		if port, ok := parseLocalPort(fields[1]); ok {
			ports[port] = struct{}{}
		}
	}
	return scanner.Err()
}

func parseLocalPort(local string) (int, bool) {
	idx := strings.LastIndexByte(local, ':')
	if idx < 0 {
		return 0, false
	}
	port, err := strconv.ParseInt(local[idx+1:], 16, 32)
	if err != nil || port <= 0 {
		return 0, false
	}
	return int(port), true
}
