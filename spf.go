package mhost

import (
	"context"
	"fmt"
	"strings"
)

// spfMaxHops bounds transitive include:/redirect= resolution to 10, per
// RFC 7208 §4.6.4.
const spfMaxHops = 10

// SPFMechanism is one term of a parsed SPF record: an optional qualifier
// ('+', '-', '~', '?'; '+' is implied when absent), a mechanism kind
// ("all", "include", "a", "mx", "ptr", "ip4", "ip6", "exists"), and the
// value that follows its ':' or '/', if any.
type SPFMechanism struct {
	Qualifier byte
	Kind      string
	Value     string
}

// SPFRecord is one domain's parsed "v=spf1 ..." TXT record.
type SPFRecord struct {
	Mechanisms []SPFMechanism
	Redirect   string // target of a "redirect=" modifier, "" if absent
}

// ParseSPFRecord parses raw, a TXT record's joined content, as an SPF
// policy. It is the caller's job to have already confirmed raw begins with
// "v=spf1" (CheckSPF does this via TXTJoined + a prefix test); ParseSPFRecord
// itself requires the prefix and returns ErrParse if it is absent.
func ParseSPFRecord(raw string) (SPFRecord, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 || !strings.EqualFold(fields[0], "v=spf1") {
		return SPFRecord{}, fmt.Errorf("%w: spf record %q: missing v=spf1 prefix", ErrParse, raw)
	}

	var rec SPFRecord
	for _, term := range fields[1:] {
		if kind, value, ok := strings.Cut(term, "="); ok && strings.EqualFold(kind, "redirect") {
			rec.Redirect = value
			continue
		}
		if _, _, ok := strings.Cut(term, "="); ok {
			continue // other modifiers (e.g. exp=) carry no mechanism semantics here
		}

		qualifier := byte('+')
		if len(term) > 0 {
			switch term[0] {
			case '+', '-', '~', '?':
				qualifier = term[0]
				term = term[1:]
			}
		}

		kind, value, found := strings.Cut(term, ":")
		if !found {
			kind, value, _ = strings.Cut(term, "/")
		}
		if kind == "" {
			continue
		}
		rec.Mechanisms = append(rec.Mechanisms, SPFMechanism{Qualifier: qualifier, Kind: kind, Value: value})
	}

	return rec, nil
}

// HasAllowAll reports whether the record contains an unqualified or "+"
// qualified "all" mechanism — the configuration spec §4.6 says to warn on.
func (rec SPFRecord) HasAllowAll() bool {
	for _, m := range rec.Mechanisms {
		if m.Kind == "all" && m.Qualifier == '+' {
			return true
		}
	}
	return false
}

// SPFWarning is a one-line issue surfaced by CheckSPF without aborting it.
type SPFWarning struct {
	Domain  Name
	Message string
}

// SPFReport is the result of checking a domain's SPF configuration,
// including every include:/redirect= target resolved transitively.
type SPFReport struct {
	Domain   Name
	Record   SPFRecord
	Included map[string]SPFRecord // by domain, every transitively-resolved record
	Warnings []SPFWarning
}

// CheckSPF fetches TXT for domain's apex, parses it as an SPF policy
// (spec §4.6's "SPF check"), and resolves every include:/redirect=
// target transitively up to spfMaxHops hops. It validates that at most
// one SPF record is present and warns (without erroring) on a bare "+all".
func CheckSPF(ctx context.Context, r *Resolver, domain Name) (SPFReport, error) {
	report := SPFReport{Domain: domain, Included: map[string]SPFRecord{}}

	rec, err := fetchSPFRecord(ctx, r, domain)
	if err != nil {
		return report, err
	}
	report.Record = rec

	if rec.HasAllowAll() {
		report.Warnings = append(report.Warnings, SPFWarning{Domain: domain, Message: "record allows +all"})
	}

	seen := map[string]struct{}{domain.String(): {}}
	queue := spfTargets(rec)

	for hops := 0; len(queue) > 0 && hops < spfMaxHops; hops++ {
		target := queue[0]
		queue = queue[1:]

		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}

		targetName, err := NewName(target)
		if err != nil {
			report.Warnings = append(report.Warnings, SPFWarning{Domain: domain, Message: fmt.Sprintf("invalid include/redirect target %q: %v", target, err)})
			continue
		}

		targetRec, err := fetchSPFRecord(ctx, r, targetName)
		if err != nil {
			report.Warnings = append(report.Warnings, SPFWarning{Domain: targetName, Message: err.Error()})
			continue
		}

		report.Included[targetName.String()] = targetRec
		queue = append(queue, spfTargets(targetRec)...)
	}

	return report, nil
}

// fetchSPFRecord resolves exactly one SPF TXT record for domain, or an
// error if none or more than one is present.
func fetchSPFRecord(ctx context.Context, r *Resolver, domain Name) (SPFRecord, error) {
	q, err := NewQuery(domain.String(), TypeTXT)
	if err != nil {
		return SPFRecord{}, err
	}

	lookup := r.Lookup(ctx, q)
	if lookup.Outcome == OutcomeNXDomain {
		return SPFRecord{}, fmt.Errorf("%w: %s", ErrNXDomain, domain)
	}
	if lookup.Outcome != OutcomeResponse {
		return SPFRecord{}, fmt.Errorf("%s: no TXT response (%s)", domain, lookup.Outcome)
	}

	var spfTexts []string
	for _, rec := range lookup.Records {
		txt, ok := rec.RData.TXTJoined()
		if !ok {
			continue
		}
		if strings.HasPrefix(strings.ToLower(txt), "v=spf1") {
			spfTexts = append(spfTexts, txt)
		}
	}

	switch len(spfTexts) {
	case 0:
		return SPFRecord{}, fmt.Errorf("%s: no SPF record found", domain)
	case 1:
		return ParseSPFRecord(spfTexts[0])
	default:
		return SPFRecord{}, fmt.Errorf("%s: %d SPF records found, at most one is allowed", domain, len(spfTexts))
	}
}

func spfTargets(rec SPFRecord) []string {
	var out []string
	for _, m := range rec.Mechanisms {
		if m.Kind == "include" && m.Value != "" {
			out = append(out, m.Value)
		}
	}
	if rec.Redirect != "" {
		out = append(out, rec.Redirect)
	}
	return out
}
