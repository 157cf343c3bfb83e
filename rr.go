package mhost

import (
	"time"

	"github.com/miekg/dns"
)

// Record is a single DNS resource record, decoded once from a wire-level
// response and immutable thereafter. Equality is structural.
type Record struct {
	Name  Name
	Type  RecordType
	TTL   time.Duration
	RData RData
}

// recordsFromRRSet decodes a slice of wire-level dns.RR into Records.
// Records whose owner name fails Name validation are skipped rather than
// aborting the whole set, since a single malformed label from a
// misconfigured zone should not hide every other answer.
func recordsFromRRSet(rrs []dns.RR) []Record {
	out := make([]Record, 0, len(rrs))
	for _, rr := range rrs {
		hdr := rr.Header()

		name, err := NewName(hdr.Name)
		if err != nil {
			continue
		}

		rdata, err := rdataFromRR(rr)
		if err != nil {
			continue
		}

		out = append(out, Record{
			Name:  name,
			Type:  UnknownType(hdr.Rrtype),
			TTL:   time.Duration(hdr.Ttl) * time.Second,
			RData: rdata,
		})
	}
	return out
}

// minTTL returns the smallest TTL among recs, or 0 if recs is empty.
func minTTL(recs []Record) time.Duration {
	if len(recs) == 0 {
		return 0
	}
	min := recs[0].TTL
	for _, r := range recs[1:] {
		if r.TTL < min {
			min = r.TTL
		}
	}
	return min
}
