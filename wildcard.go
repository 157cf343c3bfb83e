package mhost

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// WildcardReport is the result of probing a zone for a DNS wildcard (spec
// §4.6's "discover" wildcard detection).
type WildcardReport struct {
	Zone       Name
	Wildcarded bool

	// Records is the RRset the probes agreed on, present only if
	// Wildcarded is true. Callers (e.g. a wordlist-based discovery run)
	// subtract this set from further results.
	Records []Record
}

// defaultWildcardProbes is the number of randomly-generated sibling labels
// probed, and defaultWildcardThreshold is how many of them must agree for
// the zone to be flagged wildcarded (spec §4.6 default "3 of 3").
const (
	defaultWildcardProbes    = 3
	defaultWildcardThreshold = 3
)

// DetectWildcard probes zone for a wildcard DNS record by querying
// defaultWildcardProbes randomly-generated sibling labels for recordType. If
// at least defaultWildcardThreshold of them resolve to the same non-empty
// answer set, the zone is flagged wildcarded and that answer set is
// returned for later subtraction.
//
// Refuses to probe a bare public suffix (e.g. "com.") — probing one would
// produce meaningless, policy-driven registrar results rather than signal
// about an actual zone.
func DetectWildcard(ctx context.Context, r *Resolver, zone Name, recordType RecordType) (WildcardReport, error) {
	if isPublicSuffix(zone) {
		return WildcardReport{}, fmt.Errorf("%w: %s is a public suffix, refusing to probe for a wildcard", ErrInvalidName, zone)
	}

	report := WildcardReport{Zone: zone}

	records := map[string][]Record{}
	counts := map[string]int{}
	var order []string

	for i := 0; i < defaultWildcardProbes; i++ {
		label, err := randomLabel()
		if err != nil {
			return WildcardReport{}, fmt.Errorf("generate probe label: %w", err)
		}

		probeName, err := NewName(label + "." + zone.String())
		if err != nil {
			return WildcardReport{}, err
		}

		q, err := NewQuery(probeName.String(), recordType)
		if err != nil {
			return WildcardReport{}, err
		}

		lookup := r.Lookup(ctx, q)
		if lookup.Outcome != OutcomeResponse || len(lookup.Records) == 0 {
			continue
		}

		// Owner names are left out of the key: a wildcard answers each probe
		// under that probe's own name, so only type and payload can agree.
		keys := make([]string, len(lookup.Records))
		for i, rec := range lookup.Records {
			keys[i] = rec.Type.String() + "/" + recordDataKey(rec.RData)
		}
		sort.Strings(keys)
		key := strings.Join(keys, "|")
		if counts[key] == 0 {
			order = append(order, key)
			records[key] = lookup.Records
		}
		counts[key]++
	}

	for _, key := range order {
		if counts[key] >= defaultWildcardThreshold {
			report.Wildcarded = true
			report.Records = records[key]
			return report, nil
		}
	}

	return report, nil
}

// isPublicSuffix reports whether name, stripped of its trailing dot, is
// itself a registrable public suffix (e.g. "com", "co.uk"), following the
// teacher's policy.go:isPublicSuffix.
func isPublicSuffix(name Name) bool {
	s := strings.TrimSuffix(name.String(), ".")
	suffix, _ := publicsuffix.PublicSuffix(s)
	return suffix == s
}

// randomLabel returns a short, DNS-label-safe, randomly-generated string
// suitable as a wildcard probe's leftmost label.
func randomLabel() (string, error) {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	label := make([]byte, len(buf))
	for i, b := range buf {
		label[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(label), nil
}
