package mhost

import (
	"fmt"
	"net/netip"

	"github.com/miekg/dns"
)

// RData is the tagged payload of a Record. Exactly one of the typed fields
// is meaningful, selected by Type; accessors on the "wrong" variant return
// the zero value and ok=false rather than panicking.
//
// RData is constructed once, from a decoded wire record, and is immutable
// thereafter: byte slices are defensively copied on construction so nothing
// aliases the decoder's buffer (the same discipline the teacher's
// normalize() applies via dns.NewRR(rr.String()) round-tripping).
type RData struct {
	Type RecordType

	a     netip.Addr
	aaaa  netip.Addr
	cname Name
	mx    MXData
	ns    Name
	ptr   Name
	soa   SOAData
	srv   SRVData
	txt   [][]byte
	null  []byte
	caa   CAAData
	unk   UnknownData
}

// MXData is the payload of an MX record.
type MXData struct {
	Preference uint16
	Exchange   Name
}

// SRVData is the payload of an SRV record.
type SRVData struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   Name
}

// SOAData is the payload of an SOA record.
type SOAData struct {
	MName   Name
	RName   Name
	Serial  uint32
	Refresh uint32
	Retry   uint32
	Expire  uint32
	Minimum uint32
}

// CAAData is the payload of a CAA record.
type CAAData struct {
	IssuerCritical bool
	Tag            string
	Value          string
}

// UnknownData is the payload of an RData whose Type is not one of the named
// members of the RecordType enumeration.
type UnknownData struct {
	Code  uint16
	Bytes []byte
}

// A returns the IPv4 address of an A record.
func (d RData) A() (netip.Addr, bool) {
	if !d.Type.Equal(TypeA) {
		return netip.Addr{}, false
	}
	return d.a, true
}

// AAAA returns the IPv6 address of an AAAA record.
func (d RData) AAAA() (netip.Addr, bool) {
	if !d.Type.Equal(TypeAAAA) {
		return netip.Addr{}, false
	}
	return d.aaaa, true
}

// CNAME returns the target of a CNAME record.
func (d RData) CNAME() (Name, bool) {
	if !d.Type.Equal(TypeCNAME) {
		return Name{}, false
	}
	return d.cname, true
}

// MX returns the payload of an MX record.
func (d RData) MX() (MXData, bool) {
	if !d.Type.Equal(TypeMX) {
		return MXData{}, false
	}
	return d.mx, true
}

// NS returns the target of an NS record.
func (d RData) NS() (Name, bool) {
	if !d.Type.Equal(TypeNS) {
		return Name{}, false
	}
	return d.ns, true
}

// PTR returns the target of a PTR record.
func (d RData) PTR() (Name, bool) {
	if !d.Type.Equal(TypePTR) {
		return Name{}, false
	}
	return d.ptr, true
}

// SOA returns the payload of an SOA record.
func (d RData) SOA() (SOAData, bool) {
	if !d.Type.Equal(TypeSOA) {
		return SOAData{}, false
	}
	return d.soa, true
}

// SRV returns the payload of an SRV record.
func (d RData) SRV() (SRVData, bool) {
	if !d.Type.Equal(TypeSRV) {
		return SRVData{}, false
	}
	return d.srv, true
}

// TXT returns the ordered list of opaque byte chunks of a TXT record. The
// returned slices are copies.
func (d RData) TXT() ([][]byte, bool) {
	if !d.Type.Equal(TypeTXT) {
		return nil, false
	}
	out := make([][]byte, len(d.txt))
	for i, chunk := range d.txt {
		out[i] = append([]byte(nil), chunk...)
	}
	return out, true
}

// TXTJoined returns a TXT record's chunks concatenated into one string,
// which is how most consumers (SPF parsing included) want it.
func (d RData) TXTJoined() (string, bool) {
	chunks, ok := d.TXT()
	if !ok {
		return "", false
	}
	var buf []byte
	for _, c := range chunks {
		buf = append(buf, c...)
	}
	return string(buf), true
}

// NULL returns the optional raw bytes of a NULL record.
func (d RData) NULL() ([]byte, bool) {
	if !d.Type.Equal(TypeNULL) {
		return nil, false
	}
	return append([]byte(nil), d.null...), true
}

// CAA returns the payload of a CAA record.
func (d RData) CAA() (CAAData, bool) {
	if !d.Type.Equal(TypeCAA) {
		return CAAData{}, false
	}
	return d.caa, true
}

// Unknown returns the code and raw bytes of an RData whose Type is not
// among the named RecordType members.
func (d RData) Unknown() (UnknownData, bool) {
	if d.Type.IsKnown() {
		return UnknownData{}, false
	}
	return UnknownData{Code: d.unk.Code, Bytes: append([]byte(nil), d.unk.Bytes...)}, true
}

// rdataFromRR decodes a wire-level dns.RR into an RData. For any other
// record type (HINFO, NAPTR, SSHFP, SVCB, HTTPS, TLSA, OPENPGPKEY, OPT,
// ANAME, AXFR, IXFR, ANY, ZERO, or an unnamed code) the RData keeps the
// RR's own type and stores the packed record (header and RDATA, see packRR)
// as its unknown payload. Unknown() returns that payload only for codes
// outside the named RecordType members; for a named type without a
// structured accessor it is not exposed.
func rdataFromRR(rr dns.RR) (RData, error) {
	hdr := rr.Header()
	rtype := UnknownType(hdr.Rrtype)

	switch v := rr.(type) {
	case *dns.A:
		addr, ok := netip.AddrFromSlice(v.A.To4())
		if !ok {
			return RData{}, fmt.Errorf("A record: not an IPv4 address: %v", v.A)
		}
		return RData{Type: TypeA, a: addr}, nil

	case *dns.AAAA:
		addr, ok := netip.AddrFromSlice(v.AAAA.To16())
		if !ok {
			return RData{}, fmt.Errorf("AAAA record: not an IPv6 address: %v", v.AAAA)
		}
		return RData{Type: TypeAAAA, aaaa: addr}, nil

	case *dns.CNAME:
		n, err := NewName(v.Target)
		if err != nil {
			return RData{}, fmt.Errorf("CNAME record: %w", err)
		}
		return RData{Type: TypeCNAME, cname: n}, nil

	case *dns.MX:
		n, err := NewName(v.Mx)
		if err != nil {
			return RData{}, fmt.Errorf("MX record: %w", err)
		}
		return RData{Type: TypeMX, mx: MXData{Preference: v.Preference, Exchange: n}}, nil

	case *dns.NS:
		n, err := NewName(v.Ns)
		if err != nil {
			return RData{}, fmt.Errorf("NS record: %w", err)
		}
		return RData{Type: TypeNS, ns: n}, nil

	case *dns.PTR:
		n, err := NewName(v.Ptr)
		if err != nil {
			return RData{}, fmt.Errorf("PTR record: %w", err)
		}
		return RData{Type: TypePTR, ptr: n}, nil

	case *dns.SOA:
		mname, err := NewName(v.Ns)
		if err != nil {
			return RData{}, fmt.Errorf("SOA record: %w", err)
		}
		rname, err := NewName(v.Mbox)
		if err != nil {
			return RData{}, fmt.Errorf("SOA record: %w", err)
		}
		return RData{Type: TypeSOA, soa: SOAData{
			MName: mname, RName: rname, Serial: v.Serial,
			Refresh: v.Refresh, Retry: v.Retry, Expire: v.Expire, Minimum: v.Minttl,
		}}, nil

	case *dns.SRV:
		n, err := NewName(v.Target)
		if err != nil {
			return RData{}, fmt.Errorf("SRV record: %w", err)
		}
		return RData{Type: TypeSRV, srv: SRVData{
			Priority: v.Priority, Weight: v.Weight, Port: v.Port, Target: n,
		}}, nil

	case *dns.TXT:
		chunks := make([][]byte, len(v.Txt))
		for i, s := range v.Txt {
			chunks[i] = []byte(s)
		}
		return RData{Type: TypeTXT, txt: chunks}, nil

	case *dns.NULL:
		return RData{Type: TypeNULL, null: []byte(v.Data)}, nil

	case *dns.CAA:
		return RData{Type: TypeCAA, caa: CAAData{
			IssuerCritical: v.Flag&1 == 1, Tag: v.Tag, Value: v.Value,
		}}, nil

	default:
		raw, err := packRR(rr)
		if err != nil {
			return RData{}, fmt.Errorf("%s record: %w", rtype, err)
		}
		return RData{Type: rtype, unk: UnknownData{Code: hdr.Rrtype, Bytes: raw}}, nil
	}
}

// packRR returns the wire-format encoding of rr (header and RDATA both),
// for record types this package has no structured payload for. Carrying the
// whole packed record rather than trying to slice out just the RDATA keeps
// this immune to header-length accounting bugs; UNKNOWN consumers are meant
// to treat Bytes as an opaque fingerprint, not decode it further.
func packRR(rr dns.RR) ([]byte, error) {
	buf := make([]byte, dns.Len(rr)+1)
	off, err := dns.PackRR(rr, buf, 0, nil, false)
	if err != nil {
		return nil, err
	}
	return buf[:off], nil
}
