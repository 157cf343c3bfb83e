package mhost

import (
	"encoding/json"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalLookupsRoundTripsRecordValues(t *testing.T) {
	ns := UdpNS(netip.MustParseAddr("192.0.2.1"), 53)

	aLookup := Lookup{
		Query:      Query{Name: MustName("example.com"), RecordType: TypeA},
		NameServer: ns,
		Outcome:    OutcomeResponse,
		Records: []Record{{
			Name:  MustName("example.com"),
			Type:  TypeA,
			TTL:   300 * time.Second,
			RData: RData{Type: TypeA, a: netip.MustParseAddr("203.0.113.7")},
		}},
		ResponseTime: 12 * time.Millisecond,
	}

	mxLookup := Lookup{
		Query:      Query{Name: MustName("example.com"), RecordType: TypeMX},
		NameServer: ns,
		Outcome:    OutcomeResponse,
		Records: []Record{{
			Name: MustName("example.com"),
			Type: TypeMX,
			TTL:  300 * time.Second,
			RData: RData{Type: TypeMX, mx: MXData{
				Preference: 10,
				Exchange:   MustName("mail.example.com"),
			}},
		}},
		ResponseTime: 8 * time.Millisecond,
	}

	txtLookup := Lookup{
		Query:      Query{Name: MustName("example.com"), RecordType: TypeTXT},
		NameServer: ns,
		Outcome:    OutcomeResponse,
		Records: []Record{{
			Name:  MustName("example.com"),
			Type:  TypeTXT,
			TTL:   300 * time.Second,
			RData: RData{Type: TypeTXT, txt: [][]byte{[]byte("v=spf1 "), []byte("-all")}},
		}},
		ResponseTime: 5 * time.Millisecond,
	}

	ls := Lookups{items: []Lookup{aLookup, mxLookup, txtLookup}}

	raw, err := json.Marshal(MarshalLookups(ls))
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 3)

	aResult := decoded[0]["result"].(map[string]any)
	aRecords := aResult["records"].([]any)
	require.Len(t, aRecords, 1)
	aRData := aRecords[0].(map[string]any)["rdata"].(map[string]any)
	assert.Equal(t, "203.0.113.7", aRData["a"], "A record's address must survive marshaling")

	mxResult := decoded[1]["result"].(map[string]any)
	mxRecords := mxResult["records"].([]any)
	mxRData := mxRecords[0].(map[string]any)["rdata"].(map[string]any)
	mxPayload := mxRData["mx"].(map[string]any)
	assert.Equal(t, "mail.example.com.", mxPayload["exchange"], "MX exchange must survive marshaling")
	assert.Equal(t, float64(10), mxPayload["preference"], "MX preference must survive marshaling")

	txtResult := decoded[2]["result"].(map[string]any)
	txtRecords := txtResult["records"].([]any)
	txtRData := txtRecords[0].(map[string]any)["rdata"].(map[string]any)
	txtChunks := txtRData["txt"].([]any)
	require.Len(t, txtChunks, 2)
	assert.Equal(t, "v=spf1 ", txtChunks[0])
	assert.Equal(t, "-all", txtChunks[1])

	assert.Equal(t, "response", aResult["tag"])
	assert.Equal(t, "example.com.", decoded[0]["query"].(map[string]any)["name"])
	assert.Equal(t, "A", decoded[0]["query"].(map[string]any)["type"])
}

func TestMarshalLookupsEncodesOutcomeTagsNotIntegers(t *testing.T) {
	ns := UdpNS(netip.MustParseAddr("192.0.2.1"), 53)

	timeoutLookup := Lookup{
		Query:      Query{Name: MustName("slow.example.com"), RecordType: TypeA},
		NameServer: ns,
		Outcome:    OutcomeTimeout,
	}
	errorLookup := Lookup{
		Query:      Query{Name: MustName("broken.example.com"), RecordType: TypeA},
		NameServer: ns,
		Outcome:    OutcomeError,
		ErrorKind:  ErrorKindServer,
		ErrorMsg:   "SERVFAIL",
	}

	ls := Lookups{items: []Lookup{timeoutLookup, errorLookup}}

	raw, err := json.Marshal(MarshalLookups(ls))
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "timeout", decoded[0]["result"].(map[string]any)["tag"])

	errResult := decoded[1]["result"].(map[string]any)
	assert.Equal(t, "error", errResult["tag"])
	assert.Equal(t, "server", errResult["error_kind"])
	assert.Equal(t, "SERVFAIL", errResult["message"])
}

func TestMarshalCNAMEChainCarriesRecordValues(t *testing.T) {
	chain := CNAMEChain{
		Hops: []CNAMEHop{{
			Name: MustName("www.example.com"),
			Record: Record{
				Name:  MustName("www.example.com"),
				Type:  TypeCNAME,
				TTL:   60 * time.Second,
				RData: RData{Type: TypeCNAME, cname: MustName("edge.example.net")},
			},
		}},
		Truncated: false,
	}

	raw, err := json.Marshal(MarshalCNAMEChain(chain))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	hops := decoded["hops"].([]any)
	require.Len(t, hops, 1)
	record := hops[0].(map[string]any)["record"].(map[string]any)
	rdata := record["rdata"].(map[string]any)
	assert.Equal(t, "edge.example.net.", rdata["cname"], "CNAME target must survive marshaling")
}
