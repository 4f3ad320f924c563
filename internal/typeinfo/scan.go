// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"database/sql"
	"reflect"
	"time"

	"github.com/pkg/errors"
)

var (
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
)

// IsRecord reports whether values of type t are scanned field by field rather
// than as a single column. Structs that implement [sql.Scanner], and
// time.Time, are scanned as a single column.
func IsRecord(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t == timeType {
		return false
	}
	return !reflect.PointerTo(t).Implements(scannerType)
}

// ScanTargets returns pointers to the fields of the struct held by v, one per
// column in cols, for use with [sql.Rows.Scan]. v must be addressable.
func ScanTargets(v reflect.Value, cols []string) ([]any, error) {
	info, err := typeInfo(v.Type())
	if err != nil {
		return nil, err
	}
	targets := make([]any, len(cols))
	for i, col := range cols {
		field, ok := info.TagToField[col]
		if !ok {
			return nil, errors.Errorf("cannot scan column %q: no field of %s has db tag %q", col, info.Type.Name(), col)
		}
		targets[i] = v.Field(field.Index).Addr().Interface()
	}
	return targets, nil
}
