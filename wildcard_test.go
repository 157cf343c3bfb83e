package mhost

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectWildcardFlagsWildcardedZone(t *testing.T) {
	ns, _ := newFakeServer(t, `
$ORIGIN example.test.
*      300  IN  A  192.0.2.1
`)
	r := NewResolver(ResolverConfig{ns}, fastOpts())

	report, err := DetectWildcard(context.Background(), r, MustName("example.test."), TypeA)
	require.NoError(t, err)
	assert.True(t, report.Wildcarded)
	assert.Len(t, report.Records, 1)
}

func TestDetectWildcardNonWildcardedZone(t *testing.T) {
	ns, _ := newFakeServer(t, testZone)
	r := NewResolver(ResolverConfig{ns}, fastOpts())

	report, err := DetectWildcard(context.Background(), r, MustName("example.test."), TypeA)
	require.NoError(t, err)
	assert.False(t, report.Wildcarded, "zone has no wildcard record")
}

func TestDetectWildcardRefusesPublicSuffix(t *testing.T) {
	ns, _ := newFakeServer(t, testZone)
	r := NewResolver(ResolverConfig{ns}, fastOpts())

	_, err := DetectWildcard(context.Background(), r, MustName("com."), TypeA)
	assert.True(t, errors.Is(err, ErrInvalidName))
}
