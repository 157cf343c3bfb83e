package mhost

import "errors"

// ErrNXDomain is returned when the final response of a query is NXDOMAIN.
// ErrNXDomain may be wrapped and must be tested for with errors.Is.
var ErrNXDomain = errors.New("NXDOMAIN response")

// ErrCircular is returned by CNAME chasing when a chain refers back to a
// name already seen. ErrCircular may be wrapped and must be tested for with
// errors.Is.
var ErrCircular = errors.New("circular CNAME reference")

// ErrInvalidName is returned when a domain name violates RFC 1035 label or
// length limits.
var ErrInvalidName = errors.New("invalid name")

// ErrInvalidQuery is returned by MultiQuery constructors when given an empty
// set of names or record types.
var ErrInvalidQuery = errors.New("invalid query")

// ErrParse is returned by the various text-form parsers in this package
// (NameServerConfig, resolv.conf, service specs).
var ErrParse = errors.New("parse error")
