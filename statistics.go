package mhost

import (
	"fmt"
	"sort"
	"time"
)

// RecordTypeStats summarizes every Lookup of one RecordType within a
// Lookups collection (spec §4.5's statistics() operator).
type RecordTypeStats struct {
	RecordType RecordType

	MinResponseTime time.Duration
	MaxResponseTime time.Duration

	Responses int
	Timeouts  int
	Errors    int

	// DistinctServers is the number of distinct NameServerConfig that
	// produced an OutcomeResponse for this record type.
	DistinctServers int
}

// Statistics summarizes a Lookups collection, grouped by record type.
// NXDOMAIN is never counted as a Response (spec §9 open question (a)).
func (ls Lookups) Statistics() []RecordTypeStats {
	byType := map[RecordType]*RecordTypeStats{}
	servers := map[RecordType]map[NameServerConfig]struct{}{}
	var order []RecordType

	for _, l := range ls.items {
		rt := l.Query.RecordType
		st, ok := byType[rt]
		if !ok {
			st = &RecordTypeStats{RecordType: rt}
			byType[rt] = st
			servers[rt] = map[NameServerConfig]struct{}{}
			order = append(order, rt)
		}

		switch l.Outcome {
		case OutcomeResponse:
			st.Responses++
			servers[rt][l.NameServer.key()] = struct{}{}
			if st.Responses == 1 || l.ResponseTime < st.MinResponseTime {
				st.MinResponseTime = l.ResponseTime
			}
			if l.ResponseTime > st.MaxResponseTime {
				st.MaxResponseTime = l.ResponseTime
			}
		case OutcomeTimeout:
			st.Timeouts++
		case OutcomeError:
			st.Errors++
		}
	}

	out := make([]RecordTypeStats, 0, len(order))
	for _, rt := range order {
		st := *byType[rt]
		st.DistinctServers = len(servers[rt])
		out = append(out, st)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].RecordType.String() < out[j].RecordType.String() })

	return out
}

// ServerAgreement is, for one Query, the partition of the servers that
// answered it into majority and minority groups by their normalized
// answer set — the supplemented consensus/outlier view the "check" CLI
// module uses to flag inconsistent recursive resolvers.
type ServerAgreement struct {
	Query Query

	// AnswerSetKey identifies a distinct normalized answer set (the sorted
	// name/type/payload keys of its records, see answerSetKey) shared by
	// every server in Servers.
	AnswerSetKey string
	Servers      []NameServerConfig
	IsMajority   bool
}

// Agreement computes the ServerAgreement partition for q across every
// Lookup of that exact query present in ls. Only OutcomeResponse Lookups
// participate; a server that timed out or errored is absent from every
// group.
func (ls Lookups) Agreement(q Query) []ServerAgreement {
	groups := map[string][]NameServerConfig{}
	var order []string

	for _, l := range ls.items {
		if l.Query != q || l.Outcome != OutcomeResponse {
			continue
		}
		key := answerSetKey(l.Records)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], l.NameServer)
	}

	if len(order) == 0 {
		return nil
	}

	majoritySize := 0
	for _, key := range order {
		if len(groups[key]) > majoritySize {
			majoritySize = len(groups[key])
		}
	}

	out := make([]ServerAgreement, 0, len(order))
	for _, key := range order {
		servers := groups[key]
		out = append(out, ServerAgreement{
			Query:        q,
			AnswerSetKey: key,
			Servers:      servers,
			IsMajority:   len(servers) == majoritySize,
		})
	}
	return out
}

// answerSetKey builds a stable, order-independent fingerprint of a record
// set so that two servers returning the same records in a different order
// are recognised as agreeing.
func answerSetKey(records []Record) string {
	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = r.Name.String() + "/" + r.Type.String() + "/" + recordDataKey(r.RData)
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += "|"
		}
		out += k
	}
	return out
}

// recordDataKey renders an RData's payload as a comparison key. It does not
// need to be human-readable, only stable and distinct per distinct payload.
func recordDataKey(rd RData) string {
	if v, ok := rd.A(); ok {
		return v.String()
	}
	if v, ok := rd.AAAA(); ok {
		return v.String()
	}
	if v, ok := rd.CNAME(); ok {
		return v.String()
	}
	if v, ok := rd.MX(); ok {
		return fmt.Sprintf("%d:%s", v.Preference, v.Exchange)
	}
	if v, ok := rd.NS(); ok {
		return v.String()
	}
	if v, ok := rd.PTR(); ok {
		return v.String()
	}
	if v, ok := rd.SOA(); ok {
		return fmt.Sprintf("%s:%s:%d", v.MName, v.RName, v.Serial)
	}
	if v, ok := rd.SRV(); ok {
		return fmt.Sprintf("%d:%d:%d:%s", v.Priority, v.Weight, v.Port, v.Target)
	}
	if v, ok := rd.TXTJoined(); ok {
		return v
	}
	if v, ok := rd.NULL(); ok {
		return string(v)
	}
	if v, ok := rd.CAA(); ok {
		return fmt.Sprintf("%t:%s:%s", v.IssuerCritical, v.Tag, v.Value)
	}
	if v, ok := rd.Unknown(); ok {
		return fmt.Sprintf("%d:%x", v.Code, v.Bytes)
	}
	return ""
}
