package mhost

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameServerConfigRoundTrip(t *testing.T) {
	cases := []string{
		"udp:192.0.2.1:53",
		"tcp:[::1]:53",
		"tls:192.0.2.1:853,tls_auth_name=ns.example.com",
		"https:192.0.2.1:443,tls_auth_name=ns.example.com,path=/dns-query",
	}
	for _, s := range cases {
		cfg, err := ParseNameServerConfig(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, cfg.String(), "round-trip of %q", s)
	}
}

func TestParseNameServerConfigRequiresSNIForTLS(t *testing.T) {
	_, err := ParseNameServerConfig("tls:192.0.2.1:853")
	assert.Error(t, err, "tls requires tls_auth_name")
}

func TestParseNameServerConfigRejectsUnknownScheme(t *testing.T) {
	_, err := ParseNameServerConfig("quic:192.0.2.1:853")
	assert.Error(t, err, "unsupported scheme")
}

func TestNameServerConfigEqualIgnoresAuth(t *testing.T) {
	addr := netip.MustParseAddr("192.0.2.1")
	a := UdpNS(addr, 53)
	b := a
	b.Auth = &TSigAuth{KeyName: "k", Alg: "hmac-sha256", Secret: "s"}
	assert.True(t, a.Equal(b), "Equal should ignore Auth material")
}
