package mhost

import (
	"context"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepPTRSortsByAddress(t *testing.T) {
	ns, _ := newFakeServer(t, `
$ORIGIN 2.0.192.in-addr.arpa.
1    300 IN PTR  host1.example.test.
2    300 IN PTR  host2.example.test.
3    300 IN PTR  host3.example.test.
`)
	r := NewResolver(ResolverConfig{ns}, fastOpts())
	group := NewResolverGroup([]*Resolver{r}, DefaultResolverGroupOpts())

	prefix := netip.MustParsePrefix("192.0.2.0/29")
	results, err := SweepPTR(context.Background(), group, prefix)
	require.NoError(t, err)
	require.Len(t, results, 8, "/29 spans 8 addresses; streamHostAddrs does not exclude network/broadcast")

	for i := 1; i < len(results); i++ {
		assert.True(t, results[i-1].Addr.Less(results[i].Addr), "not sorted ascending at index %d: %v", i, results)
	}
}

func TestSweepPTRRejectsOversizedPrefix(t *testing.T) {
	ns, _ := newFakeServer(t, testZone)
	r := NewResolver(ResolverConfig{ns}, fastOpts())
	group := NewResolverGroup([]*Resolver{r}, DefaultResolverGroupOpts())

	prefix := netip.MustParsePrefix("10.0.0.0/8")
	_, err := SweepPTR(context.Background(), group, prefix)
	assert.Error(t, err, "prefix spans more than maxEagerSweepAddrs addresses")
}
