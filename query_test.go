package mhost

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryConvertsIPv4ToArpa(t *testing.T) {
	q, err := NewQuery("192.0.2.1", TypePTR)
	require.NoError(t, err)
	assert.Equal(t, "1.2.0.192.in-addr.arpa.", q.Name.String())
}

func TestNewQueryConvertsIPv6ToArpa(t *testing.T) {
	q, err := NewQuery("::1", TypePTR)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(q.Name.String(), ".ip6.arpa."))
}

func TestNewQueryLeavesNonPTRNamesAlone(t *testing.T) {
	q, err := NewQuery("example.com", TypeA)
	require.NoError(t, err)
	assert.Equal(t, "example.com.", q.Name.String())
}
