package mhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiRecordCrossProduct(t *testing.T) {
	mq, err := MultiRecord([]string{"a.example.com", "b.example.com"}, []RecordType{TypeA, TypeAAAA})
	require.NoError(t, err)
	assert.Equal(t, 4, mq.Len())

	q, err := NewQuery("a.example.com", TypeA)
	require.NoError(t, err)
	assert.True(t, mq.Contains(q))
}

func TestMultiRecordDeduplicates(t *testing.T) {
	mq, err := MultiRecord([]string{"a.example.com", "a.example.com"}, []RecordType{TypeA})
	require.NoError(t, err)
	assert.Equal(t, 1, mq.Len(), "duplicates collapse")
}

func TestMultiRecordRejectsEmptyInputs(t *testing.T) {
	_, err := MultiRecord(nil, []RecordType{TypeA})
	assert.Error(t, err, "expected an error for no names")

	_, err = MultiRecord([]string{"a.example.com"}, nil)
	assert.Error(t, err, "expected an error for no record types")
}
