package mhost

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"
)

// Query is a single (Name, RecordType) pair to resolve.
type Query struct {
	Name       Name
	RecordType RecordType
}

// NewQuery builds a Query, canonicalising name. If recordType is PTR and
// name parses as an IPv4 or IPv6 literal, it is converted to its reverse-DNS
// form (in-addr.arpa./ip6.arpa.) per spec §3/§4.1.
func NewQuery(name string, recordType RecordType) (Query, error) {
	if recordType.Equal(TypePTR) {
		if addr, err := netip.ParseAddr(strings.TrimSuffix(name, ".")); err == nil {
			return Query{Name: arpaName(addr), RecordType: TypePTR}, nil
		}
	}

	n, err := NewName(name)
	if err != nil {
		return Query{}, err
	}

	return Query{Name: n, RecordType: recordType}, nil
}

// arpaName returns the reverse-DNS name for addr: the dotted-decimal octets
// reversed under in-addr.arpa. for IPv4, or the reversed nibbles of the
// address under ip6.arpa. for IPv6.
func arpaName(addr netip.Addr) Name {
	if addr.Is4() {
		return arpaName4(addr)
	}
	return arpaName6(addr)
}

func arpaName4(addr netip.Addr) Name {
	b := addr.As4()
	labels := make([]string, 0, 5)
	for i := 3; i >= 0; i-- {
		labels = append(labels, strconv.Itoa(int(b[i])))
	}
	labels = append(labels, "in-addr", "arpa")
	return Name{fqdn: strings.Join(labels, ".") + "."}
}

func arpaName6(addr netip.Addr) Name {
	b := addr.As16()
	labels := make([]string, 0, 33)
	for i := 15; i >= 0; i-- {
		labels = append(labels, strconv.FormatUint(uint64(b[i]&0x0F), 16))
		labels = append(labels, strconv.FormatUint(uint64(b[i]>>4), 16))
	}
	labels = append(labels, "ip6", "arpa")
	return Name{fqdn: strings.Join(labels, ".") + "."}
}

// String returns a human-readable "NAME TYPE" rendering, e.g. "example.com. A".
func (q Query) String() string {
	return fmt.Sprintf("%s %s", q.Name, q.RecordType)
}
