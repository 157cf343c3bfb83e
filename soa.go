package mhost

import (
	"context"
	"fmt"
)

// SOAObservation is one authoritative server's answer during an SOA check.
type SOAObservation struct {
	NameServer NameServerConfig
	SOA        SOAData
	Lookup     Lookup
}

// SOAMismatch flags a field that disagreed between two SOAObservations.
type SOAMismatch struct {
	Field string
	A, B  SOAObservation
}

// SOACheckReport is the result of querying SOA for a zone across an
// explicit list of name servers expected to be authoritative for it (spec
// §4.6's "SOA check").
type SOACheckReport struct {
	Zone         Name
	Observations []SOAObservation
	Mismatches   []SOAMismatch
}

// CheckSOA queries SOA for zone against every server in expectedNS and
// flags disagreement in serial, mname, or rname, following the "check"
// and "soa-check" CLI modules' convention of an explicit expected-NS list
// separate from whatever resolver was used to find those servers'
// addresses in the first place.
func CheckSOA(ctx context.Context, expectedNS []NameServerConfig, opts ResolverOpts, zone Name) (SOACheckReport, error) {
	report := SOACheckReport{Zone: zone}

	q, err := NewQuery(zone.String(), TypeSOA)
	if err != nil {
		return report, err
	}

	for _, ns := range expectedNS {
		r := NewResolver(ResolverConfig{ns}, opts)
		lookup := r.Lookup(ctx, q)

		obs := SOAObservation{NameServer: ns, Lookup: lookup}
		if lookup.Outcome == OutcomeResponse && len(lookup.Records) > 0 {
			if soa, ok := lookup.Records[0].RData.SOA(); ok {
				obs.SOA = soa
			}
		}
		report.Observations = append(report.Observations, obs)
	}

	report.Mismatches = diffSOA(report.Observations)
	return report, nil
}

// diffSOA compares every pair of observations that both produced a
// Response and reports field-level disagreement.
func diffSOA(observations []SOAObservation) []SOAMismatch {
	var mismatches []SOAMismatch

	for i := 0; i < len(observations); i++ {
		a := observations[i]
		if a.Lookup.Outcome != OutcomeResponse {
			continue
		}
		for j := i + 1; j < len(observations); j++ {
			b := observations[j]
			if b.Lookup.Outcome != OutcomeResponse {
				continue
			}

			if a.SOA.Serial != b.SOA.Serial {
				mismatches = append(mismatches, SOAMismatch{Field: "serial", A: a, B: b})
			}
			if !a.SOA.MName.Equal(b.SOA.MName) {
				mismatches = append(mismatches, SOAMismatch{Field: "mname", A: a, B: b})
			}
			if !a.SOA.RName.Equal(b.SOA.RName) {
				mismatches = append(mismatches, SOAMismatch{Field: "rname", A: a, B: b})
			}
		}
	}

	return mismatches
}

// String renders a mismatch for a one-line CLI summary.
func (m SOAMismatch) String() string {
	return fmt.Sprintf("%s disagrees between %s and %s", m.Field, m.A.NameServer, m.B.NameServer)
}
