package mhost

import (
	"fmt"
	"net/netip"
	"strconv"

	"github.com/miekg/dns"
)

// SystemConfig reads the OS-level resolver configuration from path (normally
// "/etc/resolv.conf") and returns it as a ResolverConfig of plain UDP name
// servers, one per "nameserver" line, preserving file order.
//
// This follows the teacher's own root_nix.go, which already trusts
// miekg/dns's dns.ClientConfigFromFile to parse this file rather than
// re-implementing resolv.conf parsing here.
func SystemConfig(path string) (ResolverConfig, error) {
	cc, err := dns.ClientConfigFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read system resolver config %q: %w", path, err)
	}

	port := uint16(53)
	if p, err := strconv.ParseUint(cc.Port, 10, 16); err == nil {
		port = uint16(p)
	}

	var cfg ResolverConfig
	for _, server := range cc.Servers {
		addr, err := netip.ParseAddr(server)
		if err != nil {
			continue // skip entries resolv.conf-parsers sometimes leave non-IP (e.g. an interface-scoped literal)
		}
		cfg = append(cfg, UdpNS(addr, port))
	}

	if len(cfg) == 0 {
		return nil, fmt.Errorf("%w: system resolver config %q: no usable nameserver lines", ErrParse, path)
	}

	return cfg, nil
}
