package mhost

import (
	"encoding/json"
	"fmt"
)

// jsonQuery, jsonNameServer, and jsonLookup mirror spec §6's stable JSON
// shape for a Lookups value: an array of
// {query:{name,type}, name_server:{transport,addr,port}, result:{tag, ...}, response_time_ms}
// objects, with lower-case result tags. Record/Name/RecordType/RData have no
// exported payload fields of their own (by design, for encapsulation), so
// every --json path in this package and cmd/mhost routes through one of
// these projection types rather than handing json.Marshal a domain type
// directly.
type jsonQuery struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func marshalQuery(q Query) jsonQuery {
	return jsonQuery{Name: q.Name.String(), Type: q.RecordType.String()}
}

type jsonNameServer struct {
	Transport string `json:"transport"`
	Addr      string `json:"addr"`
	Port      uint16 `json:"port"`
}

func marshalNameServer(ns NameServerConfig) jsonNameServer {
	return jsonNameServer{
		Transport: ns.Transport.String(),
		Addr:      ns.Addr.String(),
		Port:      ns.Port,
	}
}

// jsonMXData, jsonSRVData, jsonSOAData, jsonCAAData, and jsonUnknownData
// mirror RData's variant payload types field for field.
type jsonMXData struct {
	Preference uint16 `json:"preference"`
	Exchange   string `json:"exchange"`
}

type jsonSRVData struct {
	Priority uint16 `json:"priority"`
	Weight   uint16 `json:"weight"`
	Port     uint16 `json:"port"`
	Target   string `json:"target"`
}

type jsonSOAData struct {
	MName   string `json:"mname"`
	RName   string `json:"rname"`
	Serial  uint32 `json:"serial"`
	Refresh uint32 `json:"refresh"`
	Retry   uint32 `json:"retry"`
	Expire  uint32 `json:"expire"`
	Minimum uint32 `json:"minimum"`
}

type jsonCAAData struct {
	IssuerCritical bool   `json:"issuer_critical"`
	Tag            string `json:"tag"`
	Value          string `json:"value"`
}

type jsonUnknownData struct {
	Code  uint16 `json:"code"`
	Bytes []byte `json:"bytes"`
}

// jsonRData is RData's wire projection: Type names which of the remaining
// fields, if any, is populated.
type jsonRData struct {
	Type string `json:"type"`

	A       string           `json:"a,omitempty"`
	AAAA    string           `json:"aaaa,omitempty"`
	CNAME   string           `json:"cname,omitempty"`
	MX      *jsonMXData      `json:"mx,omitempty"`
	NS      string           `json:"ns,omitempty"`
	PTR     string           `json:"ptr,omitempty"`
	SOA     *jsonSOAData     `json:"soa,omitempty"`
	SRV     *jsonSRVData     `json:"srv,omitempty"`
	TXT     []string         `json:"txt,omitempty"`
	NULL    []byte           `json:"null,omitempty"`
	CAA     *jsonCAAData     `json:"caa,omitempty"`
	Unknown *jsonUnknownData `json:"unknown,omitempty"`
}

// marshalRData projects rd's populated variant into jsonRData, switching
// over the same accessor methods statistics.go's recordDataKey already
// switches over, but keeping each field typed instead of folding it into an
// opaque comparison string.
func marshalRData(rd RData) jsonRData {
	out := jsonRData{Type: rd.Type.String()}

	if v, ok := rd.A(); ok {
		out.A = v.String()
	}
	if v, ok := rd.AAAA(); ok {
		out.AAAA = v.String()
	}
	if v, ok := rd.CNAME(); ok {
		out.CNAME = v.String()
	}
	if v, ok := rd.MX(); ok {
		out.MX = &jsonMXData{Preference: v.Preference, Exchange: v.Exchange.String()}
	}
	if v, ok := rd.NS(); ok {
		out.NS = v.String()
	}
	if v, ok := rd.PTR(); ok {
		out.PTR = v.String()
	}
	if v, ok := rd.SOA(); ok {
		out.SOA = &jsonSOAData{
			MName:   v.MName.String(),
			RName:   v.RName.String(),
			Serial:  v.Serial,
			Refresh: v.Refresh,
			Retry:   v.Retry,
			Expire:  v.Expire,
			Minimum: v.Minimum,
		}
	}
	if v, ok := rd.SRV(); ok {
		out.SRV = &jsonSRVData{Priority: v.Priority, Weight: v.Weight, Port: v.Port, Target: v.Target.String()}
	}
	if v, ok := rd.TXT(); ok {
		out.TXT = make([]string, len(v))
		for i, chunk := range v {
			out.TXT[i] = string(chunk)
		}
	}
	if v, ok := rd.NULL(); ok {
		out.NULL = v
	}
	if v, ok := rd.CAA(); ok {
		out.CAA = &jsonCAAData{IssuerCritical: v.IssuerCritical, Tag: v.Tag, Value: v.Value}
	}
	if v, ok := rd.Unknown(); ok {
		out.Unknown = &jsonUnknownData{Code: v.Code, Bytes: v.Bytes}
	}

	return out
}

// jsonRecord is Record's wire projection.
type jsonRecord struct {
	Name string    `json:"name"`
	Type string    `json:"type"`
	TTL  float64   `json:"ttl_seconds"`
	Data jsonRData `json:"rdata"`
}

func marshalRecord(r Record) jsonRecord {
	return jsonRecord{
		Name: r.Name.String(),
		Type: r.Type.String(),
		TTL:  r.TTL.Seconds(),
		Data: marshalRData(r.RData),
	}
}

func marshalRecords(records []Record) []jsonRecord {
	out := make([]jsonRecord, len(records))
	for i, r := range records {
		out[i] = marshalRecord(r)
	}
	return out
}

// jsonLookup is Lookup's wire projection.
type jsonLookup struct {
	Query          jsonQuery       `json:"query"`
	NameServer     jsonNameServer  `json:"name_server"`
	Result         json.RawMessage `json:"result"`
	ResponseTimeMS int64           `json:"response_time_ms"`
}

// MarshalLookups renders ls in the stable shape spec §6 documents for the
// CLI's JSON output mode. It is a pure projection — it never mutates ls.
func MarshalLookups(ls Lookups) []jsonLookup {
	items := ls.All()
	out := make([]jsonLookup, 0, len(items))
	for _, l := range items {
		out = append(out, marshalLookup(l))
	}
	return out
}

func marshalLookup(l Lookup) jsonLookup {
	return jsonLookup{
		Query:          marshalQuery(l.Query),
		NameServer:     marshalNameServer(l.NameServer),
		Result:         marshalResult(l),
		ResponseTimeMS: l.ResponseTime.Milliseconds(),
	}
}

// marshalResult encodes the tagged Outcome as {"tag": "...", ...fields}
// depending on which fields that outcome carries meaning for.
func marshalResult(l Lookup) json.RawMessage {
	var raw []byte
	var err error

	switch l.Outcome {
	case OutcomeResponse:
		raw, err = json.Marshal(struct {
			Tag        string       `json:"tag"`
			Records    []jsonRecord `json:"records"`
			ValidUntil string       `json:"valid_until"`
		}{"response", marshalRecords(l.Records), l.ValidUntil.UTC().Format("2006-01-02T15:04:05Z")})
	case OutcomeNXDomain:
		raw, err = json.Marshal(struct {
			Tag        string `json:"tag"`
			ValidUntil string `json:"valid_until"`
		}{"nxdomain", l.ValidUntil.UTC().Format("2006-01-02T15:04:05Z")})
	case OutcomeTimeout:
		raw, err = json.Marshal(struct {
			Tag string `json:"tag"`
		}{"timeout"})
	case OutcomeError:
		raw, err = json.Marshal(struct {
			Tag       string `json:"tag"`
			ErrorKind string `json:"error_kind"`
			Message   string `json:"message"`
		}{"error", l.ErrorKind.String(), l.ErrorMsg})
	default:
		raw, err = json.Marshal(struct {
			Tag string `json:"tag"`
		}{fmt.Sprintf("unknown(%d)", l.Outcome)})
	}

	if err != nil {
		// Only reachable if a field type above is non-marshalable, which
		// none of jsonRecord/string/time-formatted-string are.
		panic(fmt.Sprintf("mhost: marshaling lookup result: %v", err))
	}
	return json.RawMessage(raw)
}

// jsonServiceResult is ServiceResult's wire projection.
type jsonServiceResult struct {
	SRV       jsonSRVData  `json:"srv"`
	Addresses []jsonLookup `json:"addresses"`
}

// MarshalServiceResults projects LookupService's results into their JSON form.
func MarshalServiceResults(results []ServiceResult) []jsonServiceResult {
	out := make([]jsonServiceResult, len(results))
	for i, r := range results {
		out[i] = jsonServiceResult{
			SRV:       jsonSRVData{Priority: r.SRV.Priority, Weight: r.SRV.Weight, Port: r.SRV.Port, Target: r.SRV.Target.String()},
			Addresses: MarshalLookups(r.Addresses),
		}
	}
	return out
}

// jsonSOAObservation and jsonSOAMismatch are SOAObservation/SOAMismatch's
// wire projections.
type jsonSOAObservation struct {
	NameServer jsonNameServer `json:"name_server"`
	SOA        jsonSOAData    `json:"soa"`
	Lookup     jsonLookup     `json:"lookup"`
}

type jsonSOAMismatch struct {
	Field string             `json:"field"`
	A     jsonSOAObservation `json:"a"`
	B     jsonSOAObservation `json:"b"`
}

// jsonSOACheckReport is SOACheckReport's wire projection.
type jsonSOACheckReport struct {
	Zone         string               `json:"zone"`
	Observations []jsonSOAObservation `json:"observations"`
	Mismatches   []jsonSOAMismatch    `json:"mismatches"`
}

func marshalSOAObservation(obs SOAObservation) jsonSOAObservation {
	return jsonSOAObservation{
		NameServer: marshalNameServer(obs.NameServer),
		SOA: jsonSOAData{
			MName:   obs.SOA.MName.String(),
			RName:   obs.SOA.RName.String(),
			Serial:  obs.SOA.Serial,
			Refresh: obs.SOA.Refresh,
			Retry:   obs.SOA.Retry,
			Expire:  obs.SOA.Expire,
			Minimum: obs.SOA.Minimum,
		},
		Lookup: marshalLookup(obs.Lookup),
	}
}

// MarshalSOACheckReport projects a SOACheckReport into its JSON form.
func MarshalSOACheckReport(report SOACheckReport) jsonSOACheckReport {
	out := jsonSOACheckReport{
		Zone:         report.Zone.String(),
		Observations: make([]jsonSOAObservation, len(report.Observations)),
		Mismatches:   make([]jsonSOAMismatch, len(report.Mismatches)),
	}
	for i, obs := range report.Observations {
		out.Observations[i] = marshalSOAObservation(obs)
	}
	for i, m := range report.Mismatches {
		out.Mismatches[i] = jsonSOAMismatch{
			Field: m.Field,
			A:     marshalSOAObservation(m.A),
			B:     marshalSOAObservation(m.B),
		}
	}
	return out
}

// jsonWildcardReport is WildcardReport's wire projection.
type jsonWildcardReport struct {
	Zone       string       `json:"zone"`
	Wildcarded bool         `json:"wildcarded"`
	Records    []jsonRecord `json:"records,omitempty"`
}

// MarshalWildcardReport projects a WildcardReport into its JSON form.
func MarshalWildcardReport(report WildcardReport) jsonWildcardReport {
	return jsonWildcardReport{
		Zone:       report.Zone.String(),
		Wildcarded: report.Wildcarded,
		Records:    marshalRecords(report.Records),
	}
}

// jsonServerAgreement is ServerAgreement's wire projection.
type jsonServerAgreement struct {
	Query        jsonQuery        `json:"query"`
	AnswerSetKey string           `json:"answer_set_key"`
	Servers      []jsonNameServer `json:"servers"`
	IsMajority   bool             `json:"is_majority"`
}

// MarshalServerAgreement projects the "check" module's []ServerAgreement
// into its JSON form.
func MarshalServerAgreement(agreement []ServerAgreement) []jsonServerAgreement {
	out := make([]jsonServerAgreement, len(agreement))
	for i, a := range agreement {
		servers := make([]jsonNameServer, len(a.Servers))
		for j, ns := range a.Servers {
			servers[j] = marshalNameServer(ns)
		}
		out[i] = jsonServerAgreement{
			Query:        marshalQuery(a.Query),
			AnswerSetKey: a.AnswerSetKey,
			Servers:      servers,
			IsMajority:   a.IsMajority,
		}
	}
	return out
}

// jsonSPFMechanism, jsonSPFRecord, jsonSPFWarning, and jsonSPFReport are
// SPFMechanism/SPFRecord/SPFWarning/SPFReport's wire projections.
type jsonSPFMechanism struct {
	Qualifier string `json:"qualifier"`
	Kind      string `json:"kind"`
	Value     string `json:"value"`
}

type jsonSPFRecord struct {
	Mechanisms []jsonSPFMechanism `json:"mechanisms"`
	Redirect   string             `json:"redirect,omitempty"`
}

type jsonSPFWarning struct {
	Domain  string `json:"domain"`
	Message string `json:"message"`
}

type jsonSPFReport struct {
	Domain   string                   `json:"domain"`
	Record   jsonSPFRecord            `json:"record"`
	Included map[string]jsonSPFRecord `json:"included"`
	Warnings []jsonSPFWarning         `json:"warnings"`
}

func marshalSPFRecord(rec SPFRecord) jsonSPFRecord {
	mechs := make([]jsonSPFMechanism, len(rec.Mechanisms))
	for i, m := range rec.Mechanisms {
		mechs[i] = jsonSPFMechanism{Qualifier: string(m.Qualifier), Kind: m.Kind, Value: m.Value}
	}
	return jsonSPFRecord{Mechanisms: mechs, Redirect: rec.Redirect}
}

// MarshalSPFReport projects an SPFReport into its JSON form.
func MarshalSPFReport(report SPFReport) jsonSPFReport {
	included := make(map[string]jsonSPFRecord, len(report.Included))
	for domain, rec := range report.Included {
		included[domain] = marshalSPFRecord(rec)
	}
	warnings := make([]jsonSPFWarning, len(report.Warnings))
	for i, w := range report.Warnings {
		warnings[i] = jsonSPFWarning{Domain: w.Domain.String(), Message: w.Message}
	}
	return jsonSPFReport{
		Domain:   report.Domain.String(),
		Record:   marshalSPFRecord(report.Record),
		Included: included,
		Warnings: warnings,
	}
}

// jsonPTRSweepResult is PTRSweepResult's wire projection.
type jsonPTRSweepResult struct {
	Addr    string       `json:"addr"`
	Lookups []jsonLookup `json:"lookups"`
}

// MarshalPTRSweepResults projects SweepPTR's results into their JSON form.
func MarshalPTRSweepResults(results []PTRSweepResult) []jsonPTRSweepResult {
	out := make([]jsonPTRSweepResult, len(results))
	for i, r := range results {
		out[i] = jsonPTRSweepResult{Addr: r.Addr.String(), Lookups: MarshalLookups(Lookups{items: r.Lookups})}
	}
	return out
}

// jsonCNAMEHop and jsonCNAMEChain are CNAMEHop/CNAMEChain's wire projections.
type jsonCNAMEHop struct {
	Name   string     `json:"name"`
	Record jsonRecord `json:"record"`
}

type jsonCNAMEChain struct {
	Hops      []jsonCNAMEHop `json:"hops"`
	Truncated bool           `json:"truncated"`
}

// MarshalCNAMEChain projects a CNAMEChain into its JSON form.
func MarshalCNAMEChain(chain CNAMEChain) jsonCNAMEChain {
	hops := make([]jsonCNAMEHop, len(chain.Hops))
	for i, h := range chain.Hops {
		hops[i] = jsonCNAMEHop{Name: h.Name.String(), Record: marshalRecord(h.Record)}
	}
	return jsonCNAMEChain{Hops: hops, Truncated: chain.Truncated}
}
