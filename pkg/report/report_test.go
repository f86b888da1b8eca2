package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/stats"
	"github.com/Sumatoshi-tech/semverpop/pkg/popularity"
	"github.com/Sumatoshi-tech/semverpop/pkg/report"
	"github.com/Sumatoshi-tech/semverpop/pkg/summary"
)

func TestFormatters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1,234,567", report.Count(1234567))
	assert.Equal(t, "0", report.Count(0))
	assert.Equal(t, "1,234.50", report.Float(1234.5))
	assert.Equal(t, "12.50%", report.Percent(12.5))
	assert.Equal(t, "1 / 4 (25.00%)", report.ShareValue(summary.Share{Count: 1, Total: 4, Percent: 25}))
}

func TestWriter_WritesSections(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	sec := report.Section{Title: "overview"}
	sec.Add("artifacts", report.Count(2500)).Add("with violations", report.Percent(40))

	require.NoError(t, report.NewWriter(&buf, true).Write(sec, report.BandsSection("bands", summary.Bands{NonZero: 3})))

	out := buf.String()
	assert.Contains(t, out, "overview")
	assert.Contains(t, out, "METRIC")
	assert.Contains(t, out, "2,500")
	assert.Contains(t, out, "40.00%")
	assert.Contains(t, out, "bands")
	assert.NotContains(t, out, "\x1b[")
}

func TestCurveSection_NoCutoff(t *testing.T) {
	t.Parallel()

	sec := report.CurveSection("degree", popularity.Curve{Groups: 4})

	require.Len(t, sec.Rows, 2)
	assert.Equal(t, "none", sec.Rows[1].Value)
}

func TestComparisonSection_ListsTests(t *testing.T) {
	t.Parallel()

	cmp := popularity.Comparison{
		Breaking: []float64{1, 2},
		Others:   []float64{3},
		Tests: []stats.TTestResult{
			{Statistic: -1, DF: 8, PValue: 0.3466, Alternative: stats.TwoSided},
		},
	}

	sec := report.ComparisonSection("eigenvector", cmp)

	assert.Equal(t, "popularity: eigenvector", sec.Title)
	last := sec.Rows[len(sec.Rows)-1]
	assert.True(t, strings.HasPrefix(last.Metric, "t-test"))
	assert.Contains(t, last.Value, "p=0.3466")
}

func TestPage_RendersCharts(t *testing.T) {
	t.Parallel()

	opts := report.DefaultChartOpts()
	curve := popularity.Curve{
		BinX:      []float64{0, 1, 2, 3, 4},
		BinY:      []float64{1, 3, 4, 3, 1},
		FitX:      []float64{0, 1, 2, 3, 4},
		FitY:      []float64{1, 3, 4, 3, 1},
		HasCutoff: true,
		Cutoff:    popularity.Cutoff{Index: 2, X: 2, Y: 4},
	}
	cmp := popularity.Comparison{
		BreakingDensity: stats.Density{X: []float64{0, 1}, Y: []float64{0.5, 0.5}},
		OthersDensity:   stats.Density{X: []float64{0, 1}, Y: []float64{0.2, 0.8}},
	}
	pkgs := popularity.PackageReport{
		Windows: []popularity.Window{{Lo: 0, Hi: 0.5, Ratio: 0.2}, {Lo: 0.5, Hi: 1, Ratio: 0.6}},
		Coef:    []float64{0.2, 0.8},
	}

	page := report.NewPage("semverpop").Add(
		report.ViolationHistogram(opts, []float64{1, 5, 30}, []float64{2, 2}, 35, 35),
		report.TrendChart(opts, "breaking changes", []summary.TrendPoint{{Methods: 10, Violations: 1}, {Methods: 100, Violations: 10}}),
		report.DensityChart(opts, "degree", cmp),
		report.CurveChart(opts, "degree", curve),
		report.WindowChart(opts, pkgs),
		report.RatioBoxPlot(opts, "violation ratio", []report.NamedValues{
			{Name: "breaking changes", Values: []float64{0.1, 0.2, 0.3}},
			{Name: "empty"},
		}),
	)

	assert.Equal(t, 6, page.Len())

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "semverpop")
	assert.Contains(t, html, "illegal API extensions")
	assert.Contains(t, html, "callables with breaking changes")
	assert.Contains(t, html, "cutoff")
	assert.Contains(t, html, "violation ratio")
}

func TestPage_SaveCreatesDirectories(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plots", "nested", "report.html")
	page := report.NewPage("empty").Add(report.WindowChart(report.NewChartOpts(report.ThemeDark), popularity.PackageReport{}))

	require.NoError(t, page.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
