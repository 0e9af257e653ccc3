//go:build !linux

package portprobe

func (p *Probe) listUDPPorts() (map[int]struct{}, error) {
	return nil, errUnsupported
}
