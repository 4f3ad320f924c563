package shapes

import "github.com/canonical/querykit/queryid"

// Leaf has no constituents.
//
//queryid:derive
type Leaf struct{}

//queryid:derive
type Named struct {
	Table, Name string
}

//queryid:derive
type Pair struct {
	Left, Right queryid.Identifier
}

//queryid:derive
type Param[V any] struct {
	Type  queryid.Identifier
	Value V `queryid:"-" db:"value"`
}

//queryid:derive
type Select struct {
	columns []queryid.Identifier
	from    Named
	where   queryid.Identifier
	_       int
}

//queryid:derive
type Embedded struct {
	queryid.Empty
	*Pair
	Param[int]
}

// NotDerived is skipped.
type NotDerived struct {
	A int
}

type (
	//queryid:derive
	Grouped[K queryid.Identifier, V queryid.Identifier] struct {
		Key K
		Val V
	}

	Ignored struct{}
)
