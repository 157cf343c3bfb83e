package mhost

import "time"

// ResolverOpts controls a single Resolver's retry, timeout, and concurrency
// behaviour. The zero value is not valid; use DefaultResolverOpts.
type ResolverOpts struct {
	// Attempts is the maximum number of tries against the current name
	// server before giving up. Default 2.
	Attempts int

	// Timeout is the per-attempt round-trip timeout. Default 5s.
	Timeout time.Duration

	// MaxConcurrentRequestsPerResolver bounds the number of outstanding
	// queries this Resolver will have in flight at once. Default 8.
	MaxConcurrentRequestsPerResolver int

	// CacheSize is carried with the options but read by no code in this
	// module; ResolverGroup sizes its in-run de-duplication memo (see
	// cache.Cache) on its own. Default 32.
	CacheSize int

	// Validate names whether DNSSEC validation is wanted. This core never
	// itself validates authenticity (spec §1 non-goals), and the upstream
	// transport is built without reading this field. Default false.
	Validate bool

	// ExpectsMultipleResponses names whether more than one response per
	// query is expected. The transport is built without reading this field
	// and every exchange takes the first response only. Default false.
	ExpectsMultipleResponses bool

	// AbortOnError stops retrying after the first non-timeout transport
	// error rather than using up all Attempts. Default true.
	AbortOnError bool

	// AbortOnTimeout stops retrying after the first timeout rather than
	// using up all Attempts. Default true.
	AbortOnTimeout bool

	// PreserveIntermediates is carried with the options but read by no code
	// in this module: a Lookup records only the attempt that produced its
	// result, whatever this is set to. Default true.
	PreserveIntermediates bool
}

// DefaultResolverOpts returns the documented defaults from spec §3.
func DefaultResolverOpts() ResolverOpts {
	return ResolverOpts{
		Attempts:                         2,
		Timeout:                          5 * time.Second,
		MaxConcurrentRequestsPerResolver: 8,
		CacheSize:                        32,
		Validate:                         false,
		ExpectsMultipleResponses:         false,
		AbortOnError:                     true,
		AbortOnTimeout:                   true,
		PreserveIntermediates:            true,
	}
}

// ResolverGroupOpts controls a ResolverGroup's fan-out.
type ResolverGroupOpts struct {
	// MaxConcurrentResolvers bounds the number of tasks running at once
	// across the whole group, regardless of any per-resolver cap.
	MaxConcurrentResolvers int

	// Limit, if non-nil, caps the total number of Lookups the group will
	// return; the group stops scheduling new tasks once Limit results have
	// been produced. nil means unlimited.
	Limit *int
}

// DefaultResolverGroupOpts returns reasonable fan-out defaults: 16 tasks in
// flight at once, no result limit.
func DefaultResolverGroupOpts() ResolverGroupOpts {
	return ResolverGroupOpts{MaxConcurrentResolvers: 16}
}
