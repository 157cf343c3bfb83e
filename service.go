package mhost

import (
	"context"
	"fmt"
	"strings"
)

// ServiceSpec is a parsed "_service._proto.name" address, the convention
// used by SRV records (spec §4.6, §6).
type ServiceSpec struct {
	Service string
	Proto   string
	Name    Name

	full Name // "_service._proto.name.", the name actually queried
}

// ParseServiceSpec parses s as "_<svc>._<proto>.<name>". Proto is
// mandatory — unlike some conventions, a missing "_proto" label is a hard
// parse error rather than an implied "_tcp" default, per the original
// tool's service config.
func ParseServiceSpec(s string) (ServiceSpec, error) {
	full, err := NewName(s)
	if err != nil {
		return ServiceSpec{}, fmt.Errorf("%w: service spec %q: %v", ErrParse, s, err)
	}

	labels := strings.Split(strings.TrimSuffix(full.String(), "."), ".")
	if len(labels) < 3 {
		return ServiceSpec{}, fmt.Errorf("%w: service spec %q: expected _service._proto.name", ErrParse, s)
	}

	svcLabel, protoLabel := labels[0], labels[1]
	if !strings.HasPrefix(svcLabel, "_") || !strings.HasPrefix(protoLabel, "_") {
		return ServiceSpec{}, fmt.Errorf("%w: service spec %q: expected _service._proto.name", ErrParse, s)
	}

	name, err := NewName(strings.Join(labels[2:], "."))
	if err != nil {
		return ServiceSpec{}, fmt.Errorf("%w: service spec %q: %v", ErrParse, s, err)
	}

	return ServiceSpec{
		Service: strings.TrimPrefix(svcLabel, "_"),
		Proto:   strings.TrimPrefix(protoLabel, "_"),
		Name:    name,
		full:    full,
	}, nil
}

// ServiceResult is one resolved SRV target, followed up with its own
// A/AAAA lookups.
type ServiceResult struct {
	SRV       SRVData
	Addresses Lookups
}

// LookupService resolves spec's SRV record, then follows every target with
// an A and AAAA query (spec §4.6's "Service spec lookup").
func LookupService(ctx context.Context, r *Resolver, spec ServiceSpec) ([]ServiceResult, error) {
	q, err := NewQuery(spec.full.String(), TypeSRV)
	if err != nil {
		return nil, err
	}

	lookup := r.Lookup(ctx, q)
	if lookup.Outcome == OutcomeNXDomain {
		return nil, fmt.Errorf("%w: %s", ErrNXDomain, spec.full)
	}
	if lookup.Outcome != OutcomeResponse {
		return nil, fmt.Errorf("%s: no SRV response (%s)", spec.full, lookup.Outcome)
	}

	results := make([]ServiceResult, 0, len(lookup.Records))
	for _, rec := range lookup.Records {
		srv, ok := rec.RData.SRV()
		if !ok {
			continue
		}

		mq, err := MultiName([]string{srv.Target.String()}, TypeA)
		if err != nil {
			return nil, err
		}
		aMQ, err := MultiName([]string{srv.Target.String()}, TypeAAAA)
		if err != nil {
			return nil, err
		}
		all, err := MultiQueryOf(append(mq.Queries(), aMQ.Queries()...)...)
		if err != nil {
			return nil, err
		}

		addrs := r.MultiLookup(ctx, all)
		results = append(results, ServiceResult{SRV: srv, Addresses: addrs})
	}

	return results, nil
}
