package mhost

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceSpec(t *testing.T) {
	spec, err := ParseServiceSpec("_sip._tcp.example.test.")
	require.NoError(t, err)
	assert.Equal(t, "sip", spec.Service)
	assert.Equal(t, "tcp", spec.Proto)
	assert.Equal(t, "example.test.", spec.Name.String())
}

func TestParseServiceSpecRequiresProto(t *testing.T) {
	_, err := ParseServiceSpec("_sip.example.test.")
	assert.True(t, errors.Is(err, ErrParse), "missing _proto label")
}

func TestLookupServiceResolvesTargets(t *testing.T) {
	ns, _ := newFakeServer(t, `
$ORIGIN example.test.
_sip._tcp   300 IN SRV 10 60 5060 sipserver.example.test.
sipserver   300 IN A   192.0.2.50
`)
	r := NewResolver(ResolverConfig{ns}, fastOpts())

	spec, err := ParseServiceSpec("_sip._tcp.example.test.")
	require.NoError(t, err)

	results, err := LookupService(context.Background(), r, spec)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "sipserver.example.test.", results[0].SRV.Target.String())
	assert.True(t, results[0].Addresses.IsResponse(), "expected the SRV target's A lookup to succeed")
}
