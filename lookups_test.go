package mhost

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddr(t *testing.T, s string) netip.Addr {
	t.Helper()
	a, err := netip.ParseAddr(s)
	require.NoError(t, err)
	return a
}

func responseLookup(t *testing.T, name string, recordType RecordType, rdata RData) Lookup {
	t.Helper()
	return Lookup{
		Query:   Query{Name: MustName(name), RecordType: recordType},
		Outcome: OutcomeResponse,
		Records: []Record{{Name: MustName(name), Type: recordType, RData: rdata}},
	}
}

func TestLookupsProjectionsDedup(t *testing.T) {
	a1 := responseLookup(t, "www.example.test.", TypeA, RData{Type: TypeA, a: mustAddr(t, "192.0.2.1")})
	a2 := responseLookup(t, "www.example.test.", TypeA, RData{Type: TypeA, a: mustAddr(t, "192.0.2.1")}) // duplicate
	a3 := responseLookup(t, "www.example.test.", TypeA, RData{Type: TypeA, a: mustAddr(t, "192.0.2.2")})
	nx := Lookup{Query: Query{Name: MustName("gone.example.test."), RecordType: TypeA}, Outcome: OutcomeNXDomain}

	ls := LookupsOf([]Lookup{a1, a2, a3, nx})

	addrs := ls.A()
	require.Len(t, addrs, 2, "want 2 distinct addresses")
	assert.Equal(t, "192.0.2.1", addrs[0].String())
	assert.Equal(t, "192.0.2.2", addrs[1].String())

	assert.True(t, ls.IsResponse())
	assert.False(t, ls.NXDomainOnly(), "mixed outcomes")
}

func TestLookupsNXDomainOnly(t *testing.T) {
	nx1 := Lookup{Query: Query{Name: MustName("a.example.test."), RecordType: TypeA}, Outcome: OutcomeNXDomain}
	nx2 := Lookup{Query: Query{Name: MustName("b.example.test."), RecordType: TypeA}, Outcome: OutcomeNXDomain}

	ls := LookupsOf([]Lookup{nx1, nx2})
	assert.True(t, ls.NXDomainOnly())
	assert.False(t, LookupsOf(nil).NXDomainOnly(), "empty Lookups should be false")
}

func TestLookupsAnyTimeout(t *testing.T) {
	timeout := Lookup{Query: Query{Name: MustName("a.example.test."), RecordType: TypeA}, Outcome: OutcomeTimeout}
	ls := LookupsOf([]Lookup{timeout})
	assert.True(t, ls.AnyTimeout())
}

func TestStatisticsGroupsByRecordTypeAndIgnoresNXDomain(t *testing.T) {
	ns1 := UdpNS(mustAddr(t, "192.0.2.53"), 53)
	ns2 := UdpNS(mustAddr(t, "192.0.2.54"), 53)

	respA := responseLookup(t, "www.example.test.", TypeA, RData{Type: TypeA, a: mustAddr(t, "192.0.2.1")})
	respA.NameServer = ns1
	respA.ResponseTime = 10_000_000 // 10ms

	respA2 := responseLookup(t, "www.example.test.", TypeA, RData{Type: TypeA, a: mustAddr(t, "192.0.2.1")})
	respA2.NameServer = ns2
	respA2.ResponseTime = 20_000_000 // 20ms

	nx := Lookup{Query: Query{Name: MustName("gone.example.test."), RecordType: TypeA}, Outcome: OutcomeNXDomain}

	ls := LookupsOf([]Lookup{respA, respA2, nx})
	stats := ls.Statistics()
	require.Len(t, stats, 1)

	st := stats[0]
	assert.Equal(t, 2, st.Responses, "NXDOMAIN must not count")
	assert.Equal(t, 2, st.DistinctServers)
}

func TestAgreementFlagsMajority(t *testing.T) {
	q := Query{Name: MustName("www.example.test."), RecordType: TypeA}
	ns1 := UdpNS(mustAddr(t, "192.0.2.53"), 53)
	ns2 := UdpNS(mustAddr(t, "192.0.2.54"), 53)
	ns3 := UdpNS(mustAddr(t, "192.0.2.55"), 53)

	majority1 := Lookup{Query: q, NameServer: ns1, Outcome: OutcomeResponse,
		Records: []Record{{Name: q.Name, Type: TypeA, RData: RData{Type: TypeA, a: mustAddr(t, "192.0.2.1")}}}}
	majority2 := Lookup{Query: q, NameServer: ns2, Outcome: OutcomeResponse,
		Records: []Record{{Name: q.Name, Type: TypeA, RData: RData{Type: TypeA, a: mustAddr(t, "192.0.2.1")}}}}
	outlier := Lookup{Query: q, NameServer: ns3, Outcome: OutcomeResponse,
		Records: []Record{{Name: q.Name, Type: TypeA, RData: RData{Type: TypeA, a: mustAddr(t, "192.0.2.99")}}}}

	ls := LookupsOf([]Lookup{majority1, majority2, outlier})
	groups := ls.Agreement(q)
	require.Len(t, groups, 2)

	foundMajority, foundMinority := false, false
	for _, g := range groups {
		if g.IsMajority {
			foundMajority = true
			assert.Len(t, g.Servers, 2)
		} else {
			foundMinority = true
		}
	}
	assert.True(t, foundMajority)
	assert.True(t, foundMinority)
}
