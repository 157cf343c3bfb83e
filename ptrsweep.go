package mhost

import (
	"context"
	"fmt"
	"net/netip"
	"sort"
)

// maxEagerSweepAddrs is the implementation-defined threshold spec §4.1
// leaves to implementers for when to collect addresses eagerly rather than
// require the caller to stream. A sweep above this size is rejected rather
// than silently truncated.
const maxEagerSweepAddrs = 1024

// PTRSweepResult pairs the swept address with every resolver's Lookup for
// it, in the address's ascending order within the prefix (spec §4.6's
// "results sorted by input address order"). Lookups holds one entry per
// Resolver in the group that was swept, in no particular order; a
// single-resolver group (the common case) yields a single-element slice.
type PTRSweepResult struct {
	Addr    netip.Addr
	Lookups []Lookup
}

// SweepPTR builds a MultiQuery of PTR queries for every host address in
// prefix and fans it out through group, returning results sorted by
// address rather than the group's completion order.
//
// prefix must name at most maxEagerSweepAddrs host addresses; larger
// ranges are rejected rather than silently truncated, per spec §4.1's
// streaming requirement (a sweep this core performs is, by construction,
// a "collect and return" operation, so an unbounded prefix cannot be
// honoured without breaking that contract).
func SweepPTR(ctx context.Context, group *ResolverGroup, prefix netip.Prefix) ([]PTRSweepResult, error) {
	var addrs []netip.Addr
	var queries []Query
	var err error

	tooLarge := false
	streamHostAddrs(prefix, func(addr netip.Addr) bool {
		if len(addrs) >= maxEagerSweepAddrs {
			tooLarge = true
			return false
		}
		q, qerr := NewQuery(addr.String(), TypePTR)
		if qerr != nil {
			err = qerr
			return false
		}
		addrs = append(addrs, addr)
		queries = append(queries, q)
		return true
	})
	if err != nil {
		return nil, err
	}
	if tooLarge {
		return nil, fmt.Errorf("%w: prefix %s spans more than %d addresses, stream it instead", ErrInvalidQuery, prefix, maxEagerSweepAddrs)
	}

	mq, err := MultiQueryOf(queries...)
	if err != nil {
		return nil, err
	}

	lookups := group.Lookup(ctx, mq, nil)

	// byQuery collects every resolver's answer for each address rather than
	// picking one: with a multi-resolver group, ResolverGroup.Lookup's
	// completion order is unspecified, so collapsing to a single entry per
	// query would silently and non-deterministically discard every
	// resolver's answer but one.
	byQuery := map[Query][]Lookup{}
	for _, l := range lookups.All() {
		byQuery[l.Query] = append(byQuery[l.Query], l)
	}

	results := make([]PTRSweepResult, len(addrs))
	for i, addr := range addrs {
		results[i] = PTRSweepResult{Addr: addr, Lookups: byQuery[queries[i]]}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Addr.Less(results[j].Addr)
	})

	return results, nil
}
