package mhost

import "net/netip"

// addrIter lazily walks every host address in a netip.Prefix, in ascending
// order. It never materialises the full address list: large prefixes (up to
// /0) are safe to iterate as long as the caller does not collect every
// result eagerly. This backs the PTR subnet sweep operator (§4.1, §4.6),
// which builds its MultiQuery from a CIDR block through streamHostAddrs.
type addrIter struct {
	next netip.Addr
	last netip.Addr
	done bool
}

func newAddrIter(prefix netip.Prefix) *addrIter {
	prefix = prefix.Masked()
	return &addrIter{
		next: prefix.Addr(),
		last: lastAddr(prefix),
	}
}

// Next returns the next host address in the prefix, and false once the
// range is exhausted.
func (it *addrIter) Next() (netip.Addr, bool) {
	if it.done {
		return netip.Addr{}, false
	}

	addr := it.next
	if addr == it.last {
		it.done = true
	} else {
		it.next = it.next.Next()
	}

	return addr, true
}

func lastAddr(prefix netip.Prefix) netip.Addr {
	addr := prefix.Addr()
	bits := addr.BitLen()
	hostBits := bits - prefix.Bits()

	raw := addr.AsSlice()
	for i := len(raw) - 1; hostBits > 0; i-- {
		if hostBits >= 8 {
			raw[i] = 0xFF
			hostBits -= 8
		} else {
			raw[i] |= byte(1<<hostBits) - 1
			hostBits = 0
		}
	}

	last, _ := netip.AddrFromSlice(raw)
	if addr.Is4In6() || (addr.Is4() && len(raw) == 4) {
		// AsSlice on a 4-byte addr already yields 4 bytes; nothing further
		// to do, but keep the zone (none for IPv4) consistent.
		return last
	}
	return last
}

// streamHostAddrs streams every host address in prefix to yield, stopping
// early if yield returns false. The threshold
// named in spec §4.1 (collect eagerly only below ~1024 addresses) is the
// caller's concern; this function itself never buffers more than one
// address at a time.
func streamHostAddrs(prefix netip.Prefix, yield func(netip.Addr) bool) {
	it := newAddrIter(prefix)
	for {
		addr, ok := it.Next()
		if !ok {
			return
		}
		if !yield(addr) {
			return
		}
	}
}
