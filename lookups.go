package mhost

import "net/netip"

// Lookups is an ordered collection of Lookup results, as returned by
// Resolver.MultiLookup and ResolverGroup.Lookup (spec §4.5). Order is
// completion order, not submission order.
type Lookups struct {
	items []Lookup
}

// LookupsOf wraps an explicit slice of Lookup, for assembling a Lookups
// from individual Resolver.Lookup calls rather than a fan-out.
func LookupsOf(items []Lookup) Lookups {
	return Lookups{items: append([]Lookup(nil), items...)}
}

// All returns the underlying Lookup slice, in completion order.
func (ls Lookups) All() []Lookup {
	return append([]Lookup(nil), ls.items...)
}

// Len returns the number of Lookup results held.
func (ls Lookups) Len() int { return len(ls.items) }

// IsEmpty reports whether there are no Lookup results at all.
func (ls Lookups) IsEmpty() bool { return len(ls.items) == 0 }

// IsResponse reports whether at least one Lookup carries a record.
func (ls Lookups) IsResponse() bool {
	for _, l := range ls.items {
		if l.IsResponse() {
			return true
		}
	}
	return false
}

// HasRecordsOf reports whether any Lookup returned at least one record of
// the given type.
func (ls Lookups) HasRecordsOf(t RecordType) bool {
	for _, l := range ls.items {
		for _, rec := range l.Records {
			if rec.Type.Equal(t) {
				return true
			}
		}
	}
	return false
}

// NXDomainOnly reports whether every Lookup resulted in NXDOMAIN and none
// produced a Response.
func (ls Lookups) NXDomainOnly() bool {
	if len(ls.items) == 0 {
		return false
	}
	for _, l := range ls.items {
		if l.Outcome != OutcomeNXDomain {
			return false
		}
	}
	return true
}

// AnyTimeout reports whether at least one Lookup timed out.
func (ls Lookups) AnyTimeout() bool {
	for _, l := range ls.items {
		if l.Outcome == OutcomeTimeout {
			return true
		}
	}
	return false
}

// A returns the distinct IPv4 addresses seen across every Lookup's
// Response records, in order of first occurrence.
func (ls Lookups) A() []netip.Addr {
	return dedupProjection(ls.items, func(rd RData) (netip.Addr, bool) { return rd.A() })
}

// AAAA returns the distinct IPv6 addresses seen, in order of first
// occurrence.
func (ls Lookups) AAAA() []netip.Addr {
	return dedupProjection(ls.items, func(rd RData) (netip.Addr, bool) { return rd.AAAA() })
}

// CNAME returns the distinct CNAME targets seen, in order of first
// occurrence.
func (ls Lookups) CNAME() []Name {
	return dedupProjection(ls.items, func(rd RData) (Name, bool) { return rd.CNAME() })
}

// MX returns the distinct MX payloads seen, in order of first occurrence.
func (ls Lookups) MX() []MXData {
	return dedupProjection(ls.items, func(rd RData) (MXData, bool) { return rd.MX() })
}

// NS returns the distinct NS targets seen, in order of first occurrence.
func (ls Lookups) NS() []Name {
	return dedupProjection(ls.items, func(rd RData) (Name, bool) { return rd.NS() })
}

// PTR returns the distinct PTR targets seen, in order of first occurrence.
func (ls Lookups) PTR() []Name {
	return dedupProjection(ls.items, func(rd RData) (Name, bool) { return rd.PTR() })
}

// SOA returns the distinct SOA payloads seen, in order of first occurrence.
func (ls Lookups) SOA() []SOAData {
	return dedupProjection(ls.items, func(rd RData) (SOAData, bool) { return rd.SOA() })
}

// SRV returns the distinct SRV payloads seen, in order of first occurrence.
func (ls Lookups) SRV() []SRVData {
	return dedupProjection(ls.items, func(rd RData) (SRVData, bool) { return rd.SRV() })
}

// TXT returns the distinct joined TXT strings seen, in order of first
// occurrence.
func (ls Lookups) TXT() []string {
	return dedupProjection(ls.items, func(rd RData) (string, bool) { return rd.TXTJoined() })
}

// dedupProjection walks every Response Lookup's records, extracts field
// with get, and returns the distinct values in order of first occurrence.
func dedupProjection[T comparable](lookups []Lookup, get func(RData) (T, bool)) []T {
	seen := map[T]struct{}{}
	var out []T
	for _, l := range lookups {
		if l.Outcome != OutcomeResponse {
			continue
		}
		for _, rec := range l.Records {
			v, ok := get(rec.RData)
			if !ok {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
