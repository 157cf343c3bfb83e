package mhost

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSPFRecord(t *testing.T) {
	rec, err := ParseSPFRecord("v=spf1 ip4:192.0.2.0/24 include:_spf.example.net ~all")
	require.NoError(t, err)
	require.Len(t, rec.Mechanisms, 3)
	assert.Equal(t, "ip4", rec.Mechanisms[0].Kind)
	assert.Equal(t, "192.0.2.0/24", rec.Mechanisms[0].Value)
	assert.Equal(t, "all", rec.Mechanisms[2].Kind)
	assert.Equal(t, byte('~'), rec.Mechanisms[2].Qualifier)
	assert.False(t, rec.HasAllowAll(), "~all must not be reported as an allow-all")
}

func TestParseSPFRecordRequiresPrefix(t *testing.T) {
	_, err := ParseSPFRecord("not an spf record")
	assert.Error(t, err)
}

func TestParseSPFRecordAllowAll(t *testing.T) {
	rec, err := ParseSPFRecord("v=spf1 all")
	require.NoError(t, err)
	assert.True(t, rec.HasAllowAll(), "bare 'all' defaults to '+' and should be flagged")
}

func TestCheckSPFWarnsOnAllowAllAndFollowsIncludes(t *testing.T) {
	ns, _ := newFakeServer(t, `
$ORIGIN example.test.
@           300 IN TXT "v=spf1 include:_spf.example.test all"
_spf        300 IN TXT "v=spf1 ip4:192.0.2.0/24 -all"
`)
	r := NewResolver(ResolverConfig{ns}, fastOpts())

	report, err := CheckSPF(context.Background(), r, MustName("example.test."))
	require.NoError(t, err)
	assert.NotEmpty(t, report.Warnings, "expected a warning for the bare 'all' mechanism")

	_, ok := report.Included["_spf.example.test."]
	assert.True(t, ok, "want _spf.example.test. resolved: %+v", report.Included)
}
