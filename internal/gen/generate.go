// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package gen

import (
	"bytes"
	"go/format"
	"strings"
	"text/template"

	"github.com/pkg/errors"
)

// Header marks generated files.
const Header = "// Code generated by queryidgen. DO NOT EDIT."

var fileTemplate = template.Must(template.New("file").Parse(`{{.Header}}

package {{.Package}}

import "github.com/canonical/querykit/queryid"
{{range .Types}}
func (e {{.Receiver}}) QueryID() queryid.Descriptor {
	return queryid.Compose({{.Parts}})
}

func (e {{.Receiver}}) HasStaticQueryID() bool {
	return {{.Static}}
}
{{end}}`))

type typeView struct {
	Receiver string
	Parts    string
	Static   string
}

// Generate returns the gofmt-ed source of QueryID and HasStaticQueryID
// methods for types. The descriptor of each type is composed from its own tag
// and the descriptors of its fields in order. It is static when every field
// holding an expression is static.
func Generate(pkg string, types []Type) ([]byte, error) {
	if pkg == "" {
		return nil, errors.New("cannot generate code without package name")
	}
	views := make([]typeView, len(types))
	for i, t := range types {
		views[i] = view(t)
	}

	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, struct {
		Header  string
		Package string
		Types   []typeView
	}{Header, pkg, views})
	if err != nil {
		return nil, errors.Wrap(err, "cannot execute template")
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(err, "cannot format generated code")
	}
	return src, nil
}

func view(t Type) typeView {
	receiver := t.Name
	if len(t.TypeParams) > 0 {
		receiver += "[" + strings.Join(t.TypeParams, ", ") + "]"
	}

	parts := []string{"e"}
	var static []string
	for _, f := range t.Fields {
		field := "e." + f.Name
		switch f.Kind {
		case KindString:
			parts = append(parts, "queryid.Literal("+field+")")
		case KindList:
			parts = append(parts, "queryid.List("+field+")")
			static = append(static, "queryid.ListStatic("+field+")")
		default:
			parts = append(parts, "queryid.DescriptorOf("+field+")")
			static = append(static, "queryid.IsStatic("+field+")")
		}
	}
	if len(static) == 0 {
		static = []string{"true"}
	}
	return typeView{
		Receiver: receiver,
		Parts:    strings.Join(parts, ", "),
		Static:   strings.Join(static, " && "),
	}
}
