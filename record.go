package mhost

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// Name is a DNS-canonical domain name: lower-case, single trailing dot,
// compared case-insensitively. The zero value is not a valid Name; use
// NewName or ParseName to construct one.
type Name struct {
	fqdn string // always lower-case, always ends in "."
}

// Root is the DNS root zone, ".".
var Root = Name{fqdn: "."}

// NewName canonicalises s (case-folds it and ensures a single trailing dot)
// and validates it against RFC 1035's label and length limits. It returns
// ErrInvalidName, wrapping the offending label, if s is not well-formed.
func NewName(s string) (Name, error) {
	if s == "" {
		return Name{}, fmt.Errorf("%w: empty name", ErrInvalidName)
	}

	fqdn := dns.CanonicalName(s)

	if err := validateName(fqdn); err != nil {
		return Name{}, err
	}

	return Name{fqdn: fqdn}, nil
}

// MustName is like NewName but panics on error. Intended for tests and
// compile-time constants.
func MustName(s string) Name {
	n, err := NewName(s)
	if err != nil {
		panic(err)
	}
	return n
}

func validateName(fqdn string) error {
	if fqdn == "." {
		return nil
	}

	if len(fqdn) > 255 {
		return fmt.Errorf("%w: %q: total length exceeds 255 bytes", ErrInvalidName, fqdn)
	}

	labels := dns.SplitDomainName(fqdn)
	if len(labels) == 0 {
		return fmt.Errorf("%w: %q: no labels", ErrInvalidName, fqdn)
	}

	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("%w: %q: empty label", ErrInvalidName, fqdn)
		}
		if len(label) > 63 {
			return fmt.Errorf("%w: %q: label %q exceeds 63 bytes", ErrInvalidName, fqdn, label)
		}
		for _, r := range label {
			if !isValidNameRune(r) {
				return fmt.Errorf("%w: %q: label %q contains invalid character %q", ErrInvalidName, fqdn, label, r)
			}
		}
	}

	return nil
}

// isValidNameRune accepts the conventional hostname alphabet (ASCII
// letters, digits, '-'), plus '_' (service labels), '*' (wildcard owners),
// and any non-ASCII rune. Every other ASCII rune, punctuation included, is
// rejected.
func isValidNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_' || r == '*':
		return true
	case r > 127:
		// Allow non-ASCII so IDNs (punycode or raw UTF-8 labels) round-trip;
		// this core does not attempt IDNA normalisation itself.
		return true
	default:
		return false
	}
}

// String returns the FQDN including the trailing dot.
func (n Name) String() string {
	if n.fqdn == "" {
		return "."
	}
	return n.fqdn
}

// Unqualified returns the name without its trailing dot. The root name
// returns ".".
func (n Name) Unqualified() string {
	if n.fqdn == "." || n.fqdn == "" {
		return n.fqdn
	}
	return strings.TrimSuffix(n.fqdn, ".")
}

// Equal reports whether two names compare equal case-insensitively. Both
// names are assumed already canonicalised by NewName, so this is a plain
// string comparison.
func (n Name) Equal(other Name) bool {
	return n.fqdn == other.fqdn
}

// IsZero reports whether n is the unconstructed zero value.
func (n Name) IsZero() bool {
	return n.fqdn == ""
}

// IsRoot reports whether n is the DNS root zone.
func (n Name) IsRoot() bool {
	return n.fqdn == "."
}

// Parent returns the immediate parent zone of n, and false if n is already
// the root.
func (n Name) Parent() (Name, bool) {
	if n.IsRoot() {
		return Name{}, false
	}
	labels := dns.SplitDomainName(n.fqdn)
	if len(labels) <= 1 {
		return Root, true
	}
	return Name{fqdn: dns.Fqdn(strings.Join(labels[1:], "."))}, true
}

// RecordType is a closed enumeration of the DNS resource record types this
// package understands, plus an UNKNOWN(code) escape hatch for anything else.
type RecordType struct {
	code uint16
	name string // "" for UNKNOWN
}

func rt(name string, code uint16) RecordType { return RecordType{code: code, name: name} }

// Known record types, per spec §3.
var (
	TypeA          = rt("A", dns.TypeA)
	TypeAAAA       = rt("AAAA", dns.TypeAAAA)
	TypeANAME      = rt("ANAME", 65305) // no IANA-assigned code; draft-only type
	TypeANY        = rt("ANY", dns.TypeANY)
	TypeAXFR       = rt("AXFR", dns.TypeAXFR)
	TypeCAA        = rt("CAA", dns.TypeCAA)
	TypeCNAME      = rt("CNAME", dns.TypeCNAME)
	TypeHINFO      = rt("HINFO", dns.TypeHINFO)
	TypeHTTPS      = rt("HTTPS", dns.TypeHTTPS)
	TypeIXFR       = rt("IXFR", dns.TypeIXFR)
	TypeMX         = rt("MX", dns.TypeMX)
	TypeNAPTR      = rt("NAPTR", dns.TypeNAPTR)
	TypeNS         = rt("NS", dns.TypeNS)
	TypeNULL       = rt("NULL", dns.TypeNULL)
	TypeOPENPGPKEY = rt("OPENPGPKEY", dns.TypeOPENPGPKEY)
	TypeOPT        = rt("OPT", dns.TypeOPT)
	TypePTR        = rt("PTR", dns.TypePTR)
	TypeSOA        = rt("SOA", dns.TypeSOA)
	TypeSRV        = rt("SRV", dns.TypeSRV)
	TypeSSHFP      = rt("SSHFP", dns.TypeSSHFP)
	TypeSVCB       = rt("SVCB", dns.TypeSVCB)
	TypeTLSA       = rt("TLSA", dns.TypeTLSA)
	TypeTXT        = rt("TXT", dns.TypeTXT)
	TypeZERO       = rt("ZERO", 0)
)

var knownRecordTypes = map[string]RecordType{
	"A": TypeA, "AAAA": TypeAAAA, "ANAME": TypeANAME, "ANY": TypeANY,
	"AXFR": TypeAXFR, "CAA": TypeCAA, "CNAME": TypeCNAME, "HINFO": TypeHINFO,
	"HTTPS": TypeHTTPS, "IXFR": TypeIXFR, "MX": TypeMX, "NAPTR": TypeNAPTR,
	"NS": TypeNS, "NULL": TypeNULL, "OPENPGPKEY": TypeOPENPGPKEY, "OPT": TypeOPT,
	"PTR": TypePTR, "SOA": TypeSOA, "SRV": TypeSRV, "SSHFP": TypeSSHFP,
	"SVCB": TypeSVCB, "TLSA": TypeTLSA, "TXT": TypeTXT, "ZERO": TypeZERO,
}

// UnknownType constructs the UNKNOWN(code) escape-hatch member of RecordType.
func UnknownType(code uint16) RecordType {
	if name, ok := dns.TypeToString[code]; ok {
		if rt, ok := knownRecordTypes[name]; ok {
			return rt
		}
	}
	return RecordType{code: code}
}

// ParseRecordType parses a record type name such as "A" or "MX", or the
// numeric "TYPE65280" form for a code with no mnemonic, case-insensitively.
func ParseRecordType(s string) (RecordType, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	if rt, ok := knownRecordTypes[upper]; ok {
		return rt, nil
	}
	if code, ok := dns.StringToType[upper]; ok {
		return UnknownType(code), nil
	}
	if digits, ok := strings.CutPrefix(upper, "TYPE"); ok {
		if code, err := strconv.ParseUint(digits, 10, 16); err == nil {
			return UnknownType(uint16(code)), nil
		}
	}
	return RecordType{}, fmt.Errorf("%w: unsupported record type %q", ErrParse, s)
}

// Code returns the IANA RR type code.
func (t RecordType) Code() uint16 { return t.code }

// IsKnown reports whether t is one of the named members of the closed
// enumeration, as opposed to an UNKNOWN(code).
func (t RecordType) IsKnown() bool { return t.name != "" }

// String returns the record type's mnemonic ("A", "MX", ...) or, for an
// unknown code, "TYPE<code>".
func (t RecordType) String() string {
	if t.name != "" {
		return t.name
	}
	if name, ok := dns.TypeToString[t.code]; ok {
		return name
	}
	return fmt.Sprintf("TYPE%d", t.code)
}

// Equal reports whether two RecordTypes denote the same RR code.
func (t RecordType) Equal(other RecordType) bool { return t.code == other.code }
