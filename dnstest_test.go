package mhost

import (
	"net"
	"net/netip"
	"strings"
	"sync"
	"testing"

	"github.com/miekg/dns"
)

// fakeServer is a minimal authoritative-style test server, adapted from the
// teacher's server_test.go TestServer/testHandler: a zone file is parsed
// into an in-memory RRset table and served over a loopback UDP socket. It
// additionally supports forcing a SERVFAIL or a dropped (never-answered)
// response for specific query names, which the teacher's harness has no
// need for since it never exercises retry/timeout behaviour itself.
type fakeServer struct {
	mu       sync.Mutex
	servfail map[string]bool
	drop     map[string]bool
}

func (fs *fakeServer) forceServfail(name string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.servfail[dns.Fqdn(name)] = true
}

func (fs *fakeServer) forceDrop(name string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.drop[dns.Fqdn(name)] = true
}

// newFakeServer parses zone (RFC 1035 zone-file text) and starts a UDP DNS
// server on a loopback ephemeral port, shut down automatically when the
// test finishes. It returns the NameServerConfig pointing at it and a
// handle for forcing SERVFAIL/drop behaviour on specific names.
func newFakeServer(t *testing.T, zone string) (NameServerConfig, *fakeServer) {
	t.Helper()

	zp := dns.NewZoneParser(strings.NewReader(strings.TrimSpace(zone)+"\n"), ".", "test.zone")
	zp.SetIncludeAllowed(false)

	db := map[uint16]map[string][]dns.RR{}
	for {
		rr, ok := zp.Next()
		if !ok {
			break
		}
		hdr := rr.Header()
		if db[hdr.Rrtype] == nil {
			db[hdr.Rrtype] = map[string][]dns.RR{}
		}
		db[hdr.Rrtype][hdr.Name] = append(db[hdr.Rrtype][hdr.Name], rr)
	}
	if err := zp.Err(); err != nil {
		t.Fatalf("parse test zone: %v", err)
	}

	fs := &fakeServer{servfail: map[string]bool{}, drop: map[string]bool{}}

	ln, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := &dns.Server{PacketConn: ln, Handler: dns.HandlerFunc(func(w dns.ResponseWriter, r *dns.Msg) {
		if len(r.Question) != 1 {
			m := new(dns.Msg)
			m.SetRcode(r, dns.RcodeFormatError)
			w.WriteMsg(m)
			return
		}
		q := r.Question[0]

		fs.mu.Lock()
		drop := fs.drop[q.Name]
		servfail := fs.servfail[q.Name]
		fs.mu.Unlock()

		if drop {
			return // simulate an unresponsive server: client must time out
		}
		if servfail {
			m := new(dns.Msg)
			m.SetRcode(r, dns.RcodeServerFailure)
			w.WriteMsg(m)
			return
		}

		answers := db[q.Qtype][q.Name]
		if len(answers) == 0 {
			answers = wildcardAnswers(db, q)
		}
		if len(answers) == 0 {
			m := new(dns.Msg)
			m.SetRcode(r, dns.RcodeNameError)
			w.WriteMsg(m)
			return
		}

		m := new(dns.Msg)
		m.SetRcode(r, dns.RcodeSuccess)
		m.Authoritative = true
		m.Answer = answers
		w.WriteMsg(m)
	})}

	go srv.ActivateAndServe()
	t.Cleanup(func() { srv.Shutdown() })

	udpAddr := ln.LocalAddr().(*net.UDPAddr)
	addr, ok := netip.AddrFromSlice(udpAddr.IP.To4())
	if !ok {
		t.Fatalf("unexpected listener address %v", udpAddr)
	}

	return UdpNS(addr, uint16(udpAddr.Port)), fs
}

// wildcardAnswers performs the bare minimum of RFC 1034 §4.3.3 wildcard
// matching this test harness needs: if the exact owner name has no RRset
// of the queried type, try the owner name with its leftmost label replaced
// by "*" (that is, "*." prefixed to the immediate parent).
func wildcardAnswers(db map[uint16]map[string][]dns.RR, q dns.Question) []dns.RR {
	labels := dns.SplitDomainName(q.Name)
	if len(labels) == 0 {
		return nil
	}
	parent := strings.Join(labels[1:], ".")
	if parent != "" {
		parent += "."
	}
	return db[q.Qtype]["*."+parent]
}
