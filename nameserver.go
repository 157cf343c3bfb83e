package mhost

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Transport identifies the wire transport a NameServerConfig speaks.
type Transport int

const (
	// Udp is plain DNS over UDP.
	Udp Transport = iota
	// Tcp is plain DNS over TCP.
	Tcp
	// Tls is DNS-over-TLS (RFC 7858).
	Tls
	// Https is DNS-over-HTTPS (RFC 8484).
	Https
)

// String returns the transport's text-form scheme ("udp", "tcp", "tls", "https").
func (t Transport) String() string {
	switch t {
	case Udp:
		return "udp"
	case Tcp:
		return "tcp"
	case Tls:
		return "tls"
	case Https:
		return "https"
	default:
		return fmt.Sprintf("Transport(%d)", int(t))
	}
}

// TSigAuth is TSIG transaction-signature authentication material for a
// NameServerConfig.
type TSigAuth struct {
	KeyName string
	Alg     string
	Secret  string
}

// NameServerConfig describes a single DNS endpoint: its transport, address,
// port, and (for Tls/Https) the server name used for certificate
// verification, plus an optional path for Https and optional TSIG auth.
//
// Equal and key() consider (Transport, Addr, Port, Sni, Path); auth
// material is excluded. Comparing with == or using the struct itself as a
// map key also compares the Auth pointer; use key() for a map key.
type NameServerConfig struct {
	Transport Transport
	Addr      netip.Addr
	Port      uint16
	Sni       string // Tls/Https server name; "" if unset
	Path      string // Https query path; "" means the DoH default "/dns-query"

	Auth *TSigAuth // nil if unauthenticated; excluded from equality/hashing
}

// key returns the portion of the config that participates in equality and
// map-key hashing.
func (c NameServerConfig) key() NameServerConfig {
	c.Auth = nil
	return c
}

// Equal reports whether two configs denote the same endpoint, ignoring auth
// material.
func (c NameServerConfig) Equal(other NameServerConfig) bool {
	return c.key() == other.key()
}

// UdpNS builds a NameServerConfig for plain DNS over UDP.
func UdpNS(addr netip.Addr, port uint16) NameServerConfig {
	return NameServerConfig{Transport: Udp, Addr: addr, Port: port}
}

// TcpNS builds a NameServerConfig for plain DNS over TCP.
func TcpNS(addr netip.Addr, port uint16) NameServerConfig {
	return NameServerConfig{Transport: Tcp, Addr: addr, Port: port}
}

// TlsNS builds a NameServerConfig for DNS-over-TLS.
func TlsNS(addr netip.Addr, port uint16, sni string) NameServerConfig {
	return NameServerConfig{Transport: Tls, Addr: addr, Port: port, Sni: sni}
}

// HttpsNS builds a NameServerConfig for DNS-over-HTTPS.
func HttpsNS(addr netip.Addr, port uint16, sni, path string) NameServerConfig {
	return NameServerConfig{Transport: Https, Addr: addr, Port: port, Sni: sni, Path: path}
}

// ParseNameServerConfig parses the compact text form described in spec §3/§6:
//
//	udp:1.2.3.4:53
//	tcp:[::1]:53
//	tls:1.2.3.4:853,tls_auth_name=foo
//	https:1.2.3.4:443,tls_auth_name=foo,path=/dns-query
func ParseNameServerConfig(s string) (NameServerConfig, error) {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok {
		return NameServerConfig{}, fmt.Errorf("%w: name server config %q: missing scheme", ErrParse, s)
	}

	var transport Transport
	switch strings.ToLower(scheme) {
	case "udp":
		transport = Udp
	case "tcp":
		transport = Tcp
	case "tls":
		transport = Tls
	case "https":
		transport = Https
	default:
		return NameServerConfig{}, fmt.Errorf("%w: name server config %q: unknown scheme %q", ErrParse, s, scheme)
	}

	hostport, paramStr, _ := strings.Cut(rest, ",")

	addr, port, err := splitHostPort(hostport)
	if err != nil {
		return NameServerConfig{}, fmt.Errorf("%w: name server config %q: %v", ErrParse, s, err)
	}

	cfg := NameServerConfig{Transport: transport, Addr: addr, Port: port}

	if paramStr != "" {
		for _, kv := range strings.Split(paramStr, ",") {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return NameServerConfig{}, fmt.Errorf("%w: name server config %q: malformed parameter %q", ErrParse, s, kv)
			}
			switch key {
			case "tls_auth_name":
				cfg.Sni = value
			case "path":
				cfg.Path = value
			default:
				return NameServerConfig{}, fmt.Errorf("%w: name server config %q: unknown parameter %q", ErrParse, s, key)
			}
		}
	}

	if (transport == Tls || transport == Https) && cfg.Sni == "" {
		return NameServerConfig{}, fmt.Errorf("%w: name server config %q: %s requires tls_auth_name", ErrParse, s, transport)
	}
	if transport != Https && cfg.Path != "" {
		return NameServerConfig{}, fmt.Errorf("%w: name server config %q: path is only valid for https", ErrParse, s)
	}

	return cfg, nil
}

func splitHostPort(hostport string) (netip.Addr, uint16, error) {
	host := hostport
	portStr := ""

	if strings.HasPrefix(hostport, "[") {
		end := strings.Index(hostport, "]")
		if end < 0 {
			return netip.Addr{}, 0, fmt.Errorf("unterminated IPv6 literal in %q", hostport)
		}
		host = hostport[1:end]
		rest := hostport[end+1:]
		if rest != "" {
			if !strings.HasPrefix(rest, ":") {
				return netip.Addr{}, 0, fmt.Errorf("expected ':port' after IPv6 literal in %q", hostport)
			}
			portStr = rest[1:]
		}
	} else if idx := strings.LastIndex(hostport, ":"); idx >= 0 && strings.Count(hostport, ":") == 1 {
		host = hostport[:idx]
		portStr = hostport[idx+1:]
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, 0, fmt.Errorf("not an IP address: %q", host)
	}

	if portStr == "" {
		return netip.Addr{}, 0, fmt.Errorf("missing port in %q", hostport)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return netip.Addr{}, 0, fmt.Errorf("invalid port %q", portStr)
	}

	return addr, uint16(port), nil
}

// String renders the config back into its text form. parse(format(nsc)) ==
// nsc for all well-formed configs (spec §8 property 5).
func (c NameServerConfig) String() string {
	host := c.Addr.String()
	if c.Addr.Is6() {
		host = "[" + host + "]"
	}

	s := fmt.Sprintf("%s:%s:%d", c.Transport, host, c.Port)

	var params []string
	if c.Sni != "" {
		params = append(params, "tls_auth_name="+c.Sni)
	}
	if c.Path != "" {
		params = append(params, "path="+c.Path)
	}
	if len(params) > 0 {
		s += "," + strings.Join(params, ",")
	}

	return s
}

// ResolverConfig is one or more NameServerConfig attempted, in order, for a
// single logical Resolver.
type ResolverConfig []NameServerConfig
