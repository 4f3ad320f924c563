// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Command queryidgen generates QueryID and HasStaticQueryID methods for struct
// types marked with the //queryid:derive directive.
//
// Usage:
//
//	//go:generate go run github.com/canonical/querykit/cmd/queryidgen -o queryid_gen.go schema.go operators.go
package main

import (
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
