// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package queryid

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// tagCache is responsible for generating, caching and retrieving the type tags
// used in composite descriptors.
//
// The mutex must be locked when accessing either tags or inUse.
type tagCache struct {
	mutex sync.RWMutex
	tags  map[reflect.Type]string
	inUse map[string]bool
}

var (
	singleTagCache *tagCache
	once           sync.Once
)

// tagRegistry enforces the singleton pattern, ensuring access to a single
// instance of tagCache.
func tagRegistry() *tagCache {
	once.Do(func() {
		singleTagCache = &tagCache{
			tags:  make(map[reflect.Type]string),
			inUse: make(map[string]bool),
		}
	})
	return singleTagCache
}

// tag returns the tag of the type of value, generating and caching it as
// required.
func (c *tagCache) tag(value any) string {
	t := indirectType(reflect.TypeOf(value))
	if t == nil {
		return "<nil>"
	}

	c.mutex.RLock()
	tag, ok := c.tags[t]
	c.mutex.RUnlock()
	if ok {
		return tag
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	// Check if the tag has been inserted by someone else since we last
	// checked.
	if tag, ok := c.tags[t]; ok {
		return tag
	}
	tag = generateTag(t)
	// Function-local types share a name with other types of their package,
	// and a registered tag may already hold the generated one.
	if c.inUse[tag] {
		base := tag
		for n := 2; c.inUse[tag]; n++ {
			tag = base + "#" + strconv.Itoa(n)
		}
	}
	c.tags[t] = tag
	c.inUse[tag] = true
	return tag
}

// register assigns tag to the type of sample.
func (c *tagCache) register(sample any, tag string) error {
	t := indirectType(reflect.TypeOf(sample))
	if t == nil {
		return errors.New("cannot register tag for nil value")
	}
	if tag == "" || strings.ContainsAny(tag, `()[],"`) {
		return errors.Errorf("invalid tag %q", tag)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if existing, ok := c.tags[t]; ok {
		if existing == tag {
			return nil
		}
		return errors.Errorf("type %s already has tag %q", t, existing)
	}
	if c.inUse[tag] {
		return errors.Errorf("tag %q already in use", tag)
	}
	c.tags[t] = tag
	c.inUse[tag] = true
	return nil
}

// RegisterTag assigns a stable tag to the type of sample, replacing the tag
// derived from its package path and name. It must be called before the type is
// first used in a descriptor. A type whose derived tag was registered for
// another type gets a numbered suffix.
func RegisterTag(sample any, tag string) error {
	return tagRegistry().register(sample, tag)
}

// MustRegisterTag is the same as [RegisterTag] except that it panics on error.
func MustRegisterTag(sample any, tag string) {
	if err := RegisterTag(sample, tag); err != nil {
		panic(err)
	}
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// generateTag names a type by its package path and name, type arguments
// included.
func generateTag(t reflect.Type) string {
	name := t.Name()
	if name == "" {
		return "<" + t.String() + ">"
	}
	if t.PkgPath() == "" {
		return name
	}
	return t.PkgPath() + "." + name
}
