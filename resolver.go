package mhost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/AdguardTeam/dnsproxy/upstream"
	"github.com/miekg/dns"

	"github.com/mhostdns/mhost/internal/metrics"
)

// Resolver is a single logical DNS client bound to an ordered
// ResolverConfig. It selects the first reachable NameServerConfig in that
// list and speaks to it with the transport (UDP/TCP/DoT/DoH) the config
// names, per spec §4.3.
//
// Unlike the teacher's Resolver, which walks the root→TLD→zone delegation
// chain itself, this Resolver is a stub resolver: it sends exactly the
// Query it is given to the configured server and reports what comes back.
// Concurrent calls to Lookup and MultiLookup are safe.
type Resolver struct {
	Config ResolverConfig
	Opts   ResolverOpts

	// Logger receives per-attempt diagnostics. Nil means discard.
	Logger *slog.Logger

	// Metrics, if non-nil, receives query/timeout/error counters.
	Metrics *metrics.Recorder

	sem chan struct{} // bounds MaxConcurrentRequestsPerResolver
}

// NewResolver builds a Resolver from an explicit ResolverConfig and the
// given options.
func NewResolver(config ResolverConfig, opts ResolverOpts) *Resolver {
	if opts.MaxConcurrentRequestsPerResolver <= 0 {
		opts.MaxConcurrentRequestsPerResolver = DefaultResolverOpts().MaxConcurrentRequestsPerResolver
	}
	return &Resolver{
		Config: config,
		Opts:   opts,
		sem:    make(chan struct{}, opts.MaxConcurrentRequestsPerResolver),
	}
}

// Lookup sends q to the name servers in r.Config in order, retrying each
// per r.Opts, and returns the outcome. It never returns a Go error: failures
// are reported inside the returned Lookup (spec §7 propagation policy).
//
// A server's definitive answer (Response, NXDomain, or a server-error
// RCODE) is returned immediately. Only an exhausted Timeout is treated as
// "this server is unavailable" and causes Resolver to fall through to the
// next configured NameServerConfig, if any; the last name server tried is
// reported in the returned Lookup either way.
func (r *Resolver) Lookup(ctx context.Context, q Query) Lookup {
	r.sem <- struct{}{}
	defer func() { <-r.sem }()

	if len(r.Config) == 0 {
		return Lookup{
			Query:     q,
			Outcome:   OutcomeError,
			ErrorKind: ErrorKindInternal,
			ErrorMsg:  "resolver has no name servers configured",
		}
	}

	var last attemptResult
	var ns NameServerConfig

	for _, ns = range r.Config {
		last = r.attempt(ctx, q, ns)
		if last.outcome != OutcomeTimeout {
			break
		}
	}

	return Lookup{
		Query:        q,
		NameServer:   ns,
		Outcome:      last.outcome,
		Records:      last.records,
		ValidUntil:   last.validUntil,
		ResponseTime: last.rtt,
		ErrorKind:    last.errorKind,
		ErrorMsg:     last.errorMsg,
	}
}

// MultiLookup fans every query in mq out against this single Resolver,
// bounded by Opts.MaxConcurrentRequestsPerResolver (spec §4.3's "Multi-query
// on a single resolver").
func (r *Resolver) MultiLookup(ctx context.Context, mq MultiQuery) Lookups {
	queries := mq.Queries()
	tasks := make([]Task[Lookup], len(queries))
	for i, q := range queries {
		q := q
		tasks[i] = func(ctx context.Context) Lookup {
			return r.Lookup(ctx, q)
		}
	}

	results := BufferedUnorderedWithBreaker(ctx, r.Opts.MaxConcurrentRequestsPerResolver, tasks, nil)
	return Lookups{items: results}
}

type attemptResult struct {
	outcome    Outcome
	records    []Record
	validUntil time.Time
	rtt        time.Duration
	errorKind  ErrorKind
	errorMsg   string
}

// attempt tries query q against ns up to r.Opts.Attempts times. A timeout or
// transport error is retried (AbortOnTimeout/AbortOnError permitting) and,
// if every attempt is exhausted, reported as OutcomeTimeout. A definitive
// DNS-level answer — success, NXDOMAIN, or a server-error RCODE — is never
// retried and is returned as soon as it is received, per spec §9 open
// question (b).
func (r *Resolver) attempt(ctx context.Context, q Query, ns NameServerConfig) attemptResult {
	attempts := r.Opts.Attempts
	if attempts <= 0 {
		attempts = DefaultResolverOpts().Attempts
	}

	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := r.exchange(ctx, q, ns)
		r.log(q, ns, result, err)

		if err != nil {
			lastErr = err
			var timeoutErr *timeoutError
			isTimeout := errors.As(err, &timeoutErr)

			if isTimeout {
				r.Metrics.Timeout(q.RecordType.String())
				if r.Opts.AbortOnTimeout {
					break
				}
			} else if r.Opts.AbortOnError {
				break
			}
			continue
		}

		return result
	}

	msg := "timed out"
	if lastErr != nil {
		msg = lastErr.Error()
	}
	return attemptResult{outcome: OutcomeTimeout, errorMsg: msg}
}

type timeoutError struct{ err error }

func (e *timeoutError) Error() string { return e.err.Error() }
func (e *timeoutError) Unwrap() error { return e.err }

// exchange performs exactly one network round trip against ns. err is
// non-nil only for a transport failure or an exhausted per-attempt timeout;
// a DNS-level response (including a server-error RCODE) is always returned
// as a definitive attemptResult with err == nil.
func (r *Resolver) exchange(ctx context.Context, q Query, ns NameServerConfig) (attemptResult, error) {
	r.Metrics.Query(q.RecordType.String())

	timeout := r.Opts.Timeout
	if timeout <= 0 {
		timeout = DefaultResolverOpts().Timeout
	}

	up, err := newUpstream(ns, timeout)
	if err != nil {
		return attemptResult{}, fmt.Errorf("build upstream for %s: %w", ns, err)
	}
	defer up.Close()

	msg := new(dns.Msg)
	msg.SetQuestion(q.Name.String(), q.RecordType.Code())
	msg.RecursionDesired = true

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type exchangeResult struct {
		resp *dns.Msg
		err  error
	}
	resultCh := make(chan exchangeResult, 1)
	start := time.Now()

	go func() {
		resp, err := up.Exchange(msg)
		resultCh <- exchangeResult{resp: resp, err: err}
	}()

	select {
	case <-attemptCtx.Done():
		return attemptResult{}, &timeoutError{err: attemptCtx.Err()}
	case res := <-resultCh:
		rtt := time.Since(start)
		if res.err != nil {
			return attemptResult{}, fmt.Errorf("exchange: %w", res.err)
		}
		return r.classify(res.resp, rtt, q.RecordType), nil
	}
}

// classify maps a DNS response onto the Lookup outcomes described in spec
// §4.3.
func (r *Resolver) classify(resp *dns.Msg, rtt time.Duration, recordType RecordType) attemptResult {
	switch resp.Rcode {
	case dns.RcodeSuccess:
		records := recordsFromRRSet(resp.Answer)
		validUntil := time.Now().Add(minTTL(records))
		if len(records) == 0 {
			validUntil = time.Now().Add(soaMinimumOf(resp.Ns))
		}
		r.Metrics.ResponseTime(recordType.String(), rtt)
		return attemptResult{
			outcome:    OutcomeResponse,
			records:    records,
			validUntil: validUntil,
			rtt:        rtt,
		}

	case dns.RcodeNameError:
		return attemptResult{
			outcome:    OutcomeNXDomain,
			validUntil: time.Now().Add(soaMinimumOf(resp.Ns)),
			rtt:        rtt,
		}

	default:
		r.Metrics.Error(recordType.String(), dns.RcodeToString[resp.Rcode])
		return attemptResult{
			outcome:   OutcomeError,
			errorKind: ErrorKindServer,
			errorMsg:  dns.RcodeToString[resp.Rcode],
			rtt:       rtt,
		}
	}
}

func (r *Resolver) log(q Query, ns NameServerConfig, result attemptResult, err error) {
	logger := r.Logger
	if logger == nil {
		return
	}
	if err != nil {
		logger.Debug("dns query failed", "query", q.String(), "name_server", ns.String(), "error", err)
		return
	}
	logger.Debug("dns query completed",
		"query", q.String(), "name_server", ns.String(),
		"outcome", result.outcome.String(), "rtt", result.rtt)
}

// soaMinimumOf returns the MINIMUM field of the first SOA record found in
// authority, or 0 if none is present, per spec §4.3's "NOERROR with empty
// answer" and NXDOMAIN negative-caching rules.
func soaMinimumOf(authority []dns.RR) time.Duration {
	for _, rr := range authority {
		if soa, ok := rr.(*dns.SOA); ok {
			return time.Duration(soa.Minttl) * time.Second
		}
	}
	return 0
}

// newUpstream turns a NameServerConfig into a dnsproxy upstream.Upstream,
// following sudo-tiz/internal/resolver/resolver.go:performQuery's use of
// upstream.AddressToUpstream. UDP and TCP configs are addressed directly by
// IP; TLS and HTTPS configs are addressed by their SNI host name with the
// configured IP pinned via ServerIPAddrs, so certificate verification
// checks the name the operator intended rather than the literal IP.
func newUpstream(ns NameServerConfig, timeout time.Duration) (upstream.Upstream, error) {
	opts := &upstream.Options{Timeout: timeout}

	var address string
	switch ns.Transport {
	case Udp, Tcp:
		address = net.JoinHostPort(ns.Addr.String(), portString(ns.Port))
		if ns.Transport == Tcp {
			address = "tcp://" + address
		}
	case Tls:
		opts.ServerIPAddrs = []net.IP{net.IP(ns.Addr.AsSlice())}
		address = fmt.Sprintf("tls://%s:%s", ns.Sni, portString(ns.Port))
	case Https:
		opts.ServerIPAddrs = []net.IP{net.IP(ns.Addr.AsSlice())}
		path := ns.Path
		if path == "" {
			path = "/dns-query"
		}
		address = fmt.Sprintf("https://%s:%s%s", ns.Sni, portString(ns.Port), path)
	default:
		return nil, fmt.Errorf("unsupported transport: %v", ns.Transport)
	}

	return upstream.AddressToUpstream(address, opts)
}

func portString(port uint16) string {
	return fmt.Sprintf("%d", port)
}
