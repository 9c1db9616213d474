// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"

	"github.com/google/safehtml/template"

	"github.com/rqbench/rqstat/chartspec"
	"github.com/rqbench/rqstat/trialstat"
)

// A Page is the content of an HTML report.
type Page struct {
	Title       string
	Diagnostics []trialstat.Diagnostic
	Charts      []Section
	Overheads   []OverheadTable
	Stats       *trialstat.Table // optional
}

// A Section is one chart of a report.
type Section struct {
	Name  string
	Title string
	// Image is the chart's image path, relative to the report.
	Image    string
	Omitted  []string
	Excluded []string
}

// An OverheadTable is a named set of overhead rows.
type OverheadTable struct {
	Name string
	Rows []chartspec.OverheadRow
}

var htmlTemplate = template.Must(template.New("report").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title>
<style>
table.rqstat td, table.rqstat th { padding: 0 0.5em; }
td.num { text-align: right; }
p.warn { color: #a00; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Diagnostics}}
<h2>Diagnostics</h2>
<ul>
{{- range .Diagnostics}}
<li>{{.String}}</li>
{{- end}}
</ul>
{{- end}}
{{- range .Charts}}
<h2>{{.Title}}</h2>
{{- if .Image}}
<img src="{{.Image}}" alt="{{.Name}}">
{{- end}}
{{- range .Omitted}}
<p class="warn">omitted {{.}}</p>
{{- end}}
{{- range .Excluded}}
<p>excluded {{.}}</p>
{{- end}}
{{- end}}
{{- range .Overheads}}
<h2>Overhead: {{.Name}}</h2>
<table class="rqstat">
<tr><th>workload</th><th>threads</th><th>pair</th><th>overhead</th></tr>
{{- range .Rows}}
<tr><td>{{.Workload}}</td><td class="num">{{.Threads}}</td><td>{{.Pair}}</td><td class="num">{{overhead .}}</td></tr>
{{- end}}
</table>
{{- end}}
{{- with .Stats}}
<h2>Aggregates</h2>
<table class="rqstat">
<tr><th>key</th><th>mean</th><th>stddev</th><th>n</th></tr>
{{- range rows .}}
<tr><td>{{.Key}}</td><td class="num">{{printf "%.4f" .Mean}}</td><td class="num">{{printf "%.4f" .StdDev}}</td><td class="num">{{.N}}</td></tr>
{{- end}}
</table>
{{- end}}
</body>
</html>
`))

var htmlFuncs = template.FuncMap{
	"overhead": func(r chartspec.OverheadRow) string {
		if !r.OK {
			return "n/a"
		}
		return fmt.Sprintf("%.2f%%", r.Percent)
	},
	"rows": statRows,
}

// HTML writes p as an HTML document.
func HTML(w io.Writer, p *Page) error {
	return htmlTemplate.Execute(w, p)
}
