package output

import (
	"bytes"
	"html/template"
)

// HTMLFormatter produces a self-contained HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

const htmlTemplateSource = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Lifetime Plan: {{.Name}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { padding: 4px 10px; border-bottom: 1px solid #ddd; text-align: right; }
th:first-child, td:first-child { text-align: left; }
tr.short td { color: #b00020; }
</style>
</head>
<body>
<h1>Lifetime Plan: {{.Name}}</h1>
{{if .Assumptions}}<h2>Key Assumptions</h2>
<ul>{{range .Assumptions}}
<li>{{.}}</li>{{end}}
</ul>{{end}}
{{with .Result}}<h2>Year by Year</h2>
<table>
<tr><th>Year</th><th>Age</th><th>Phase</th><th>Income</th><th>Expenses</th><th>Taxes</th><th>RMD</th><th>Shortfall</th><th>Net Worth</th></tr>{{range years .}}
<tr{{if .Shortfall.IsPositive}} class="short"{{end}}><td>{{.Year}}</td><td>{{.Age}}</td><td>{{.Phase}}</td><td>{{curr .Income}}</td><td>{{curr .Expenses}}</td><td>{{curr .Taxes}}</td><td>{{curr .RMD}}</td><td>{{curr .Shortfall}}</td><td>{{curr .NetWorth}}</td></tr>{{end}}
</table>
<p>Final net worth {{curr .FinalNetWorth}}; peak {{curr .PeakNetWorth}}.{{if .DepletionDate}} Funds run short from {{.DepletionDate.Format "2006-01"}}.{{end}}</p>{{end}}
{{with .Comparison}}<h2>Scenario Summary</h2>
<table>
<tr><th>Scenario</th><th>Retire</th><th>Claim</th><th>Final Net Worth</th><th>Taxes</th><th>Penalties</th><th>Shortfall Months</th></tr>{{range .Scenarios}}
<tr><td>{{.Name}}</td><td>{{.RetirementAge}}</td><td>{{.SSClaimAge}}</td><td>{{curr .FinalNetWorth}}</td><td>{{curr .TotalTaxes}}</td><td>{{curr .TotalPenalties}}</td><td>{{.ShortfallMonths}}</td></tr>{{end}}
</table>
<ul>{{range .Recommendations}}
<li>{{.}}</li>{{end}}
</ul>{{end}}
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"years": SummarizeYears,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	if report == nil {
		return nil, ErrEmptyReport
	}
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
