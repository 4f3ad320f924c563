// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package typeinfo

import (
	"reflect"
	"regexp"
	"sync"

	"github.com/pkg/errors"
)

var cacheMutex sync.RWMutex
var cache = make(map[reflect.Type]*Info)

// GetTypeInfo returns the Info of the struct type of value, generating and
// caching it as required.
func GetTypeInfo(value any) (*Info, error) {
	if value == nil {
		return nil, errors.New("cannot reflect nil value")
	}
	return typeInfo(reflect.TypeOf(value))
}

func typeInfo(t reflect.Type) (*Info, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	cacheMutex.RLock()
	info, found := cache[t]
	cacheMutex.RUnlock()
	if found {
		return info, nil
	}

	info, err := generate(t)
	if err != nil {
		return nil, err
	}

	cacheMutex.Lock()
	cache[t] = info
	cacheMutex.Unlock()

	return info, nil
}

// generate produces the Info of the struct type t.
func generate(t reflect.Type) (*Info, error) {
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("can only reflect struct type, got %s", t.Kind())
	}

	info := Info{
		TagToField: make(map[string]Field),
		Type:       t,
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		// Fields without a "db" tag are not scanned.
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		if !field.IsExported() {
			return nil, errors.Errorf("field %s of %s has db tag but is not exported", field.Name, t.Name())
		}
		if !validColNameRx.MatchString(tag) {
			return nil, errors.Errorf("invalid column name %q in db tag of field %s", tag, field.Name)
		}
		if dup, ok := info.TagToField[tag]; ok {
			return nil, errors.Errorf("db tag %q of field %s already used by field %s", tag, field.Name, dup.Name)
		}
		info.TagToField[tag] = Field{
			Name:  field.Name,
			Index: i,
			Type:  field.Type,
		}
		info.Tags = append(info.Tags, tag)
	}
	return &info, nil
}

var validColNameRx = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z_0-9]*$`)
