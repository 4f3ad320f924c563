// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package typeinfo contains the reflection code used to scan query results into
Go values. Struct fields are matched to result columns by their "db" tag.
*/
package typeinfo
