package parser

import (
	"strings"
	"testing"
)

func TestHTMLConverter_HeadingsAndParagraphs(t *testing.T) {
	input := `<html><head><title>Annual Report</title><style>p{}</style></head><body>
<h1>Acme 2025</h1>
<p>Intro paragraph.</p>
<h2>Business Overview</h2>
<p>We make widgets.</p>
<h2>Risk Factors</h2>
<p>Competition is fierce.</p>
</body></html>`
	c := &HTMLConverter{}
	out, err := c.Convert(strings.NewReader(input), "report.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"# Acme 2025\n",
		"## Business Overview\n",
		"## Risk Factors\n",
		"We make widgets.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "p{}") {
		t.Error("style content leaked into output")
	}
}

func TestHTMLConverter_TableBecomesPipeTable(t *testing.T) {
	input := `<body><h2>Results</h2>
<table>
<tr><th>Metric</th><th>2025</th></tr>
<tr><td>Revenue</td><td>120</td></tr>
<tr><td>Net income</td><td>12</td></tr>
</table></body>`
	c := &HTMLConverter{}
	out, err := c.Convert(strings.NewReader(input), "results.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "| Metric | 2025 |") {
		t.Errorf("missing header row:\n%s", out)
	}
	if !strings.Contains(out, "|---|---|") {
		t.Errorf("missing separator row:\n%s", out)
	}
	if !strings.Contains(out, "| Revenue | 120 |") {
		t.Errorf("missing data row:\n%s", out)
	}
}
