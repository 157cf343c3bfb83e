package mhost

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNameCanonicalizes(t *testing.T) {
	n, err := NewName("WWW.Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "www.example.com.", n.String())
}

func TestNewNameRejectsOverlongLabel(t *testing.T) {
	label := strings.Repeat("a", 64) // labels are capped at 63 octets
	_, err := NewName(label + ".example.com")
	assert.Error(t, err)
}

func TestNewNameRejectsEmpty(t *testing.T) {
	_, err := NewName("")
	assert.Error(t, err)
}

func TestParseRecordTypeKnownAndUnknown(t *testing.T) {
	rt, err := ParseRecordType("a")
	require.NoError(t, err)
	assert.True(t, rt.Equal(TypeA))

	unk, err := ParseRecordType("TYPE65280")
	require.NoError(t, err)
	assert.False(t, unk.IsKnown(), "TYPE65280 should not be a known mnemonic")
	assert.Equal(t, "TYPE65280", unk.String())
}

func TestParseRecordTypeRejectsGarbage(t *testing.T) {
	_, err := ParseRecordType("NOT-A-TYPE")
	assert.Error(t, err)
}
