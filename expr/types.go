// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package expr

import "github.com/canonical/querykit/queryid"

// SQLType is the declared SQL type of a column or bound parameter. SQL types
// are part of the shape of an expression: a statement prepared for a TEXT
// parameter is not reused for an INTEGER one.
type SQLType interface {
	queryid.Identifier
	SQLTypeName() string
}

//queryid:derive
type Integer struct{}

func (Integer) SQLTypeName() string { return "INTEGER" }

//queryid:derive
type BigInt struct{}

func (BigInt) SQLTypeName() string { return "BIGINT" }

//queryid:derive
type Double struct{}

func (Double) SQLTypeName() string { return "DOUBLE" }

//queryid:derive
type Text struct{}

func (Text) SQLTypeName() string { return "TEXT" }

//queryid:derive
type Bool struct{}

func (Bool) SQLTypeName() string { return "BOOLEAN" }

//queryid:derive
type Blob struct{}

func (Blob) SQLTypeName() string { return "BLOB" }

//queryid:derive
type Timestamp struct{}

func (Timestamp) SQLTypeName() string { return "TIMESTAMP" }
