package mhost

import (
	"context"
	"fmt"
)

// CNAMEHop is one link in a chased CNAME chain: the name queried and the
// record found for it.
type CNAMEHop struct {
	Name   Name
	Record Record
}

// CNAMEChain is the result of a CNAME chase: the ordered chain of hops and
// whether the chase ended because it ran out of hops rather than reaching a
// non-CNAME answer.
type CNAMEChain struct {
	Hops      []CNAMEHop
	Truncated bool
}

// maxCNAMEHops bounds a chase at 16 hops (spec §4.6).
const maxCNAMEHops = 16

// ChaseCNAME repeatedly resolves CNAME records starting at name, following
// each target, until a non-CNAME answer is found, 16 hops have been
// followed without reaching one (Truncated=true), or a cycle is detected
// (ErrCircular). Idempotent:
// chasing from the chain's own terminal name returns the same chain minus
// the hops already walked.
func ChaseCNAME(ctx context.Context, r *Resolver, name Name) (CNAMEChain, error) {
	seen := map[Name]struct{}{name: {}}
	chain := CNAMEChain{}

	current := name
	for i := 0; i < maxCNAMEHops; i++ {
		q, err := NewQuery(current.String(), TypeCNAME)
		if err != nil {
			return chain, err
		}

		lookup := r.Lookup(ctx, q)
		if lookup.Outcome != OutcomeResponse || len(lookup.Records) == 0 {
			return chain, nil
		}

		rec := lookup.Records[0]
		target, ok := rec.RData.CNAME()
		if !ok {
			return chain, nil
		}

		chain.Hops = append(chain.Hops, CNAMEHop{Name: current, Record: rec})

		if _, dup := seen[target]; dup {
			return chain, fmt.Errorf("%w: %s", ErrCircular, target)
		}
		seen[target] = struct{}{}
		current = target
	}

	chain.Truncated = true
	return chain, nil
}
