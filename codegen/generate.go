package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"text/template"
	"unicode"
)

// Options tunes the generated file.
type Options struct {
	// Accessors forces typed accessors even when the manifest leaves them off
	Accessors bool
	// Source is recorded in the generated header
	Source string
}

var commonInitialisms = map[string]string{
	"api": "API", "db": "DB", "http": "HTTP", "id": "ID", "ip": "IP",
	"json": "JSON", "sql": "SQL", "ui": "UI", "uri": "URI", "url": "URL", "uuid": "UUID",
}

// AccessorName converts a context key such as "charge_id" into the exported
// method name used for its accessor ("ChargeID").
func AccessorName(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == '/'
	})

	var b strings.Builder
	for _, part := range parts {
		if upper, ok := commonInitialisms[strings.ToLower(part)]; ok {
			b.WriteString(upper)
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}

	name := b.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "Key" + name
	}
	return name
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// readableKeys returns the accepted then expected keys of action, each key once.
func readableKeys(action ActionManifest) []KeyManifest {
	seen := make(map[string]struct{})
	var keys []KeyManifest
	for _, group := range [][]KeyManifest{action.Accepts, action.Expects} {
		for _, k := range group {
			if _, ok := seen[k.Key]; ok {
				continue
			}
			seen[k.Key] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

type templateData struct {
	Source    string
	Package   string
	Accessors bool
	Actions   []ActionManifest
}

var funcs = template.FuncMap{
	"quote":        strconv.Quote,
	"lowerFirst":   lowerFirst,
	"accessorName": AccessorName,
	"readableKeys": readableKeys,
}

var fileTemplate = template.Must(template.New("contracts").Funcs(funcs).Parse(`// Code generated by goservice-gen{{ if .Source }} from {{ .Source }}{{ end }}. DO NOT EDIT.

package {{ .Package }}

import "github.com/davidroman0O/goservice"
{{ range $a := .Actions }}
var {{ lowerFirst $a.Type }}Contract = goservice.NewContract(){{ if $a.Name }}.
	Named({{ quote $a.Name }}){{ end }}{{ range $a.Accepts }}.
	Accepts({{ quote .Key }}{{ if .Default }}, goservice.Default({{ .Default }}){{ end }}){{ end }}{{ range $a.Expects }}.
	Expects({{ quote .Key }}){{ end }}{{ range $a.Promises }}.
	Promises({{ quote .Key }}){{ end }}

// Contract implements goservice.Action.
func ({{ $a.Type }}) Contract() *goservice.Contract { return {{ lowerFirst $a.Type }}Contract }
{{ if $.Accessors }}{{ range readableKeys $a }}
// {{ accessorName .Key }} reads {{ quote .Key }} from ctx.
func ({{ $a.Type }}) {{ accessorName .Key }}(ctx *goservice.Context) ({{ .ValueType }}, error) {
	return goservice.Fetch[{{ .ValueType }}](ctx, {{ quote .Key }})
}
{{ end }}{{ range $a.Promises }}
// Set{{ accessorName .Key }} writes {{ quote .Key }} to ctx.
func ({{ $a.Type }}) Set{{ accessorName .Key }}(ctx *goservice.Context, value {{ .ValueType }}) {
	ctx.Set({{ quote .Key }}, value)
}
{{ end }}{{ end }}{{ end }}`))

// Generate renders the gofmt'ed Go source declaring the contracts of m.
func Generate(m *Manifest, opts Options) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	data := templateData{
		Source:    opts.Source,
		Package:   m.Package,
		Accessors: m.DefineContextAccessors || opts.Accessors,
		Actions:   m.Actions,
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("codegen: render: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: format generated source: %w", err)
	}
	return src, nil
}
