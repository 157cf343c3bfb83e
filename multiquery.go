package mhost

import "fmt"

// MultiQuery is a finite set of Query: duplicates collapse, insertion order
// is not observable. Build one with NewMultiQuery, MultiRecord, or
// MultiName.
type MultiQuery struct {
	set map[Query]struct{}
}

// NewMultiQuery builds the cross-product of a single name against one or
// more record types. It is equivalent to the source library's
// MultiQuery::new.
func NewMultiQuery(name string, types []RecordType) (MultiQuery, error) {
	return MultiRecord([]string{name}, types)
}

// MultiRecord builds the cross-product of one or more names against one or
// more record types, rejecting empty inputs with ErrInvalidQuery.
func MultiRecord(names []string, types []RecordType) (MultiQuery, error) {
	if len(names) == 0 {
		return MultiQuery{}, fmt.Errorf("%w: no names given", ErrInvalidQuery)
	}
	if len(types) == 0 {
		return MultiQuery{}, fmt.Errorf("%w: no record types given", ErrInvalidQuery)
	}

	mq := MultiQuery{set: map[Query]struct{}{}}
	for _, name := range names {
		for _, t := range types {
			q, err := NewQuery(name, t)
			if err != nil {
				return MultiQuery{}, err
			}
			mq.set[q] = struct{}{}
		}
	}
	return mq, nil
}

// MultiName builds the cross-product of one or more names against a single
// record type.
func MultiName(names []string, recordType RecordType) (MultiQuery, error) {
	return MultiRecord(names, []RecordType{recordType})
}

// MultiQueryOf builds a MultiQuery directly from an explicit, already
// validated list of Query, de-duplicating as usual. Useful for operators
// (PTR subnet sweep, service lookup) that construct Query values themselves
// rather than through user-supplied strings.
func MultiQueryOf(queries ...Query) (MultiQuery, error) {
	if len(queries) == 0 {
		return MultiQuery{}, fmt.Errorf("%w: no queries given", ErrInvalidQuery)
	}
	mq := MultiQuery{set: map[Query]struct{}{}}
	for _, q := range queries {
		mq.set[q] = struct{}{}
	}
	return mq, nil
}

// Queries returns the set's members as a slice. Order is unspecified.
func (mq MultiQuery) Queries() []Query {
	out := make([]Query, 0, len(mq.set))
	for q := range mq.set {
		out = append(out, q)
	}
	return out
}

// Len returns the number of distinct queries in the set.
func (mq MultiQuery) Len() int { return len(mq.set) }

// Contains reports whether q is a member of the set.
func (mq MultiQuery) Contains(q Query) bool {
	_, ok := mq.set[q]
	return ok
}
