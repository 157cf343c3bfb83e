package mhost

import "time"

// Outcome is the tag of a Lookup's result: which of Response, NXDomain,
// Timeout, or Error it represents (spec §3).
type Outcome int

const (
	// OutcomeResponse is a NOERROR response (possibly with zero answers).
	OutcomeResponse Outcome = iota
	// OutcomeNXDomain is an NXDOMAIN response.
	OutcomeNXDomain
	// OutcomeTimeout is an exhausted-retries timeout.
	OutcomeTimeout
	// OutcomeError is a server error (SERVFAIL/REFUSED/FORMERR/NOTIMP) or
	// an internal failure. Resolver reports a transport failure that ends
	// its attempts as OutcomeTimeout, not as OutcomeError.
	OutcomeError
)

// String renders the outcome the way the JSON encoding does: lower-case
// ("response", "nxdomain", "timeout", "error"), per spec §6.
func (o Outcome) String() string {
	switch o {
	case OutcomeResponse:
		return "response"
	case OutcomeNXDomain:
		return "nxdomain"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrorKind classifies an OutcomeError Lookup, per spec §7's error taxonomy.
type ErrorKind int

const (
	// ErrorKindNone applies to non-error outcomes.
	ErrorKindNone ErrorKind = iota
	// ErrorKindServer is a server-returned error RCODE; not retried.
	ErrorKindServer
	// ErrorKindTransport classifies a network/transport failure. Resolver
	// retries such failures like a timeout and reports them as
	// OutcomeTimeout, so it never sets this kind itself.
	ErrorKindTransport
	// ErrorKindInternal covers panics or scheduling failures inside the
	// fan-out driver.
	ErrorKindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindServer:
		return "server"
	case ErrorKindTransport:
		return "transport"
	case ErrorKindInternal:
		return "internal"
	default:
		return "none"
	}
}

// Lookup is the outcome of one Query against one NameServerConfig: a
// Response, NXDomain, Timeout, or Error (spec §3's Lookup type).
type Lookup struct {
	Query      Query
	NameServer NameServerConfig

	Outcome Outcome

	// Records and ValidUntil are meaningful for OutcomeResponse and
	// OutcomeNXDomain (ValidUntil only).
	Records    []Record
	ValidUntil time.Time

	// ErrorKind and ErrorMsg are meaningful for OutcomeError.
	ErrorKind ErrorKind
	ErrorMsg  string

	// ResponseTime is the measured round-trip time of the attempt that
	// produced this Lookup's result, per spec §3's monotonic-clock
	// invariant. It is zero for OutcomeTimeout (no response was ever
	// received to time) and may be zero for OutcomeError if the failure
	// happened before a round trip could be attempted.
	ResponseTime time.Duration
}

// IsResponse reports whether this Lookup carries at least one record.
func (l Lookup) IsResponse() bool {
	return l.Outcome == OutcomeResponse && len(l.Records) > 0
}
