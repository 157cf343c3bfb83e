package mhost

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testZone = `
$ORIGIN example.test.
@              300  IN  SOA  ns1.example.test. hostmaster.example.test. 1 3600 600 86400 300
www            300  IN  A    192.0.2.10
mail           300  IN  MX   10 mail.example.test.
mail           300  IN  A    192.0.2.20
alias          300  IN  CNAME  www.example.test.
`

func fastOpts() ResolverOpts {
	opts := DefaultResolverOpts()
	opts.Timeout = 200 * time.Millisecond
	opts.Attempts = 2
	return opts
}

func TestResolverLookupResponse(t *testing.T) {
	ns, _ := newFakeServer(t, testZone)
	r := NewResolver(ResolverConfig{ns}, fastOpts())

	q, err := NewQuery("www.example.test.", TypeA)
	require.NoError(t, err)

	lookup := r.Lookup(context.Background(), q)
	require.Equal(t, OutcomeResponse, lookup.Outcome, "err=%s", lookup.ErrorMsg)
	require.Len(t, lookup.Records, 1)

	addr, ok := lookup.Records[0].RData.A()
	assert.True(t, ok)
	assert.Equal(t, "192.0.2.10", addr.String())
}

func TestResolverLookupNXDomain(t *testing.T) {
	ns, _ := newFakeServer(t, testZone)
	r := NewResolver(ResolverConfig{ns}, fastOpts())

	q, err := NewQuery("nowhere.example.test.", TypeA)
	require.NoError(t, err)

	lookup := r.Lookup(context.Background(), q)
	assert.Equal(t, OutcomeNXDomain, lookup.Outcome)
}

// A SERVFAIL is a definitive answer: it must be surfaced immediately,
// without retrying, and without falling through to a later name server.
func TestResolverServerErrorNotRetried(t *testing.T) {
	ns, fs := newFakeServer(t, testZone)
	fs.forceServfail("www.example.test.")

	r := NewResolver(ResolverConfig{ns}, fastOpts())
	q, err := NewQuery("www.example.test.", TypeA)
	require.NoError(t, err)

	lookup := r.Lookup(context.Background(), q)
	require.Equal(t, OutcomeError, lookup.Outcome)
	assert.Equal(t, ErrorKindServer, lookup.ErrorKind)
	assert.Equal(t, "SERVFAIL", lookup.ErrorMsg)
}

// A dropped (unanswered) query times out against the first name server
// (AbortOnTimeout stops after the first timeout) and falls through to the
// second.
func TestResolverTimeoutFallsThrough(t *testing.T) {
	unresponsive, unresponsiveFS := newFakeServer(t, testZone)
	unresponsiveFS.forceDrop("www.example.test.")

	good, _ := newFakeServer(t, testZone)

	r := NewResolver(ResolverConfig{unresponsive, good}, fastOpts())
	q, err := NewQuery("www.example.test.", TypeA)
	require.NoError(t, err)

	lookup := r.Lookup(context.Background(), q)
	require.Equal(t, OutcomeResponse, lookup.Outcome, "want Response after fallthrough")
	assert.True(t, lookup.NameServer.Equal(good), "want the second (responsive) server")
}

func TestResolverNoNameServersConfigured(t *testing.T) {
	r := NewResolver(nil, fastOpts())
	q := Query{Name: MustName("www.example.test."), RecordType: TypeA}

	lookup := r.Lookup(context.Background(), q)
	assert.Equal(t, OutcomeError, lookup.Outcome)
	assert.Equal(t, ErrorKindInternal, lookup.ErrorKind)
}

func TestResolverMultiLookup(t *testing.T) {
	ns, _ := newFakeServer(t, testZone)
	r := NewResolver(ResolverConfig{ns}, fastOpts())

	mq, err := MultiRecord([]string{"www.example.test.", "mail.example.test."}, []RecordType{TypeA})
	require.NoError(t, err)

	lookups := r.MultiLookup(context.Background(), mq)
	assert.Equal(t, 2, lookups.Len())
	assert.True(t, lookups.IsResponse(), "expected at least one response")
}
