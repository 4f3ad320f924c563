// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

const (
	deriveDirective   = "//queryid:derive"
	unstableDirective = "//queryid:unstable"
)

// FieldKind determines how a field contributes to the descriptor.
type FieldKind int

const (
	// KindExpr is a field holding an expression.
	KindExpr FieldKind = iota
	// KindString is a piece of SQL text that is part of the shape.
	KindString
	// KindList is a slice of expressions.
	KindList
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "literal"
	case KindList:
		return "list"
	default:
		return "expr"
	}
}

// Field is a constituent of a derived type.
type Field struct {
	Name string
	Type string
	Kind FieldKind
}

// Type is a struct type marked for derivation.
type Type struct {
	Name       string
	TypeParams []string
	Fields     []Field
}

// File holds the derived types found in one source file.
type File struct {
	Package string
	Types   []Type
}

// basicTypes cannot be constituents: they are neither expressions nor names.
var basicTypes = map[string]bool{
	"bool": true, "byte": true, "rune": true, "error": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// ParseFile parses the Go source in src, or in filename if src is nil, and
// returns the struct types whose doc comment carries the //queryid:derive
// directive.
func ParseFile(filename string, src any) (*File, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", filename)
	}

	file := &File{Package: f.Name.Name}
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			derive, unstable := directives(doc)
			if !derive {
				continue
			}
			if unstable {
				return nil, errors.Errorf("cannot derive query ID for %s: type is marked unstable, implement QueryID and HasStaticQueryID by hand", ts.Name.Name)
			}
			t, err := parseType(ts)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot derive query ID for %s", ts.Name.Name)
			}
			file.Types = append(file.Types, t)
		}
	}
	return file, nil
}

func directives(doc *ast.CommentGroup) (derive, unstable bool) {
	if doc == nil {
		return false, false
	}
	for _, c := range doc.List {
		switch c.Text {
		case deriveDirective:
			derive = true
		case unstableDirective:
			unstable = true
		}
	}
	return derive, unstable
}

func parseType(ts *ast.TypeSpec) (Type, error) {
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return Type{}, errors.Errorf("need struct type, got %s", types.ExprString(ts.Type))
	}

	t := Type{Name: ts.Name.Name}
	if ts.TypeParams != nil {
		for _, tp := range ts.TypeParams.List {
			for _, name := range tp.Names {
				t.TypeParams = append(t.TypeParams, name.Name)
			}
		}
	}

	for _, f := range st.Fields.List {
		if skipped(f.Tag) {
			continue
		}
		names, err := fieldNames(f)
		if err != nil {
			return Type{}, err
		}
		if len(names) == 0 {
			continue
		}
		kind, err := fieldKind(f.Type)
		if err != nil {
			return Type{}, errors.Wrapf(err, "field %s", names[0])
		}
		for _, name := range names {
			t.Fields = append(t.Fields, Field{Name: name, Type: types.ExprString(f.Type), Kind: kind})
		}
	}
	return t, nil
}

// fieldNames returns the names declared by f, leaving out blank ones. An
// embedded field is named after its type.
func fieldNames(f *ast.Field) ([]string, error) {
	if len(f.Names) == 0 {
		name := embeddedName(f.Type)
		if name == "" {
			return nil, errors.Errorf("unsupported embedded field %s", types.ExprString(f.Type))
		}
		return []string{name}, nil
	}
	var names []string
	for _, name := range f.Names {
		if name.Name != "_" {
			names = append(names, name.Name)
		}
	}
	return names, nil
}

// skipped reports whether the field carries the tag queryid:"-".
func skipped(tag *ast.BasicLit) bool {
	if tag == nil {
		return false
	}
	raw, err := strconv.Unquote(tag.Value)
	if err != nil {
		return false
	}
	return reflect.StructTag(raw).Get("queryid") == "-"
}

func fieldKind(expr ast.Expr) (FieldKind, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		if e.Name == "string" {
			return KindString, nil
		}
		if basicTypes[e.Name] {
			return 0, errors.Errorf("type %s is not an expression, tag it with queryid:\"-\" if it does not affect the SQL text", e.Name)
		}
	case *ast.ArrayType:
		if e.Len == nil {
			return KindList, nil
		}
		return 0, errors.Errorf("unsupported array type %s", types.ExprString(e))
	case *ast.MapType, *ast.FuncType, *ast.ChanType:
		return 0, errors.Errorf("unsupported field type %s", types.ExprString(e))
	}
	return KindExpr, nil
}

func embeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.IndexExpr:
		return embeddedName(e.X)
	case *ast.IndexListExpr:
		return embeddedName(e.X)
	}
	return ""
}
