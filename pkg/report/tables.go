package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/stats"
	"github.com/Sumatoshi-tech/semverpop/pkg/popularity"
	"github.com/Sumatoshi-tech/semverpop/pkg/summary"
)

// Number formats for humanized values.
const (
	floatFormat   = "#,###.##"
	pValueFormat  = "%.4g"
	percentSuffix = "%"
)

// Row is one metric line of a table.
type Row struct {
	Metric string
	Value  string
}

// Section is a titled table of metrics.
type Section struct {
	Title string
	Rows  []Row
}

// Add appends a row and returns the section for chaining.
func (s *Section) Add(metric, value string) *Section {
	s.Rows = append(s.Rows, Row{Metric: metric, Value: value})

	return s
}

// Count formats an integer with thousands separators.
func Count(n int) string {
	return humanize.Comma(int64(n))
}

// Float formats a float with thousands separators and two decimals.
func Float(f float64) string {
	return humanize.FormatFloat(floatFormat, f)
}

// Percent formats a percentage value.
func Percent(f float64) string {
	return Float(f) + percentSuffix
}

// ShareValue renders "count / total (percent)".
func ShareValue(s summary.Share) string {
	return fmt.Sprintf("%s / %s (%s)", Count(s.Count), Count(s.Total), Percent(s.Percent))
}

// BandsSection lists the violation percentage bands.
func BandsSection(title string, b summary.Bands) Section {
	s := Section{Title: title}
	s.Add("artifacts with violations", Count(b.NonZero)).
		Add("below 1%", Count(b.BelowOne)).
		Add("below 15%", Count(b.BelowFifteen)).
		Add("at least 10%", Count(b.AtLeastTen)).
		Add("at least 50%", Count(b.AtLeastFifty)).
		Add("mean of non-zero", Percent(b.MeanNonZero))

	return s
}

// ComparisonSection lists the sample sizes and t-tests of one metric.
func ComparisonSection(metric string, cmp popularity.Comparison) Section {
	s := Section{Title: "popularity: " + metric}
	s.Add("breaking callables (non-zero)", Count(len(cmp.Breaking))).
		Add("breaking callables (zero)", Count(cmp.BreakingZeros)).
		Add("other callables (non-zero)", Count(len(cmp.Others))).
		Add("other callables (zero)", Count(cmp.OthersZeros)).
		Add("breaking mean", Float(stats.Mean(cmp.Breaking))).
		Add("others mean", Float(stats.Mean(cmp.Others)))

	for _, res := range cmp.Tests {
		s.Add("t-test "+res.Alternative.String(),
			fmt.Sprintf("t=%s df=%s p="+pValueFormat, Float(res.Statistic), Float(res.DF), res.PValue))
	}

	return s
}

// CurveSection describes a method popularity curve and its balance point.
func CurveSection(metric string, curve popularity.Curve) Section {
	s := Section{Title: "cutoff: " + metric}
	s.Add("groups", Count(curve.Groups))

	if !curve.HasCutoff {
		s.Add("balance point", "none")

		return s
	}

	s.Add("balance point x", Float(curve.Cutoff.X)).
		Add("position", Percent(curve.Cutoff.Fraction*100)).
		Add("left area", Float(curve.Cutoff.LeftArea)).
		Add("right area", Float(curve.Cutoff.RightArea))

	return s
}

// UsageSection describes unused methods per package.
func UsageSection(u popularity.Usage) Section {
	s := Section{Title: "unused methods"}
	s.Add("methods mean / median", Float(u.Methods.Mean)+" / "+Float(u.Methods.Median)).
		Add("unused mean / median", Float(u.Unused.Mean)+" / "+Float(u.Unused.Median)).
		Add("unused min / max", Float(u.Unused.Min)+" / "+Float(u.Unused.Max)).
		Add("unused ratio mean", Float(u.Ratio.Mean)).
		Add("packages with fewer than 10 unused", Count(u.FewUnused))

	return s
}

// PackagesSection describes the package popularity windows.
func PackagesSection(rep popularity.PackageReport) Section {
	s := Section{Title: "package popularity"}
	s.Add("packages", Count(len(rep.All))).
		Add("packages with violations", Count(len(rep.Violating))).
		Add("windows kept", Count(len(rep.Windows)))

	for i, c := range rep.Coef {
		s.Add(fmt.Sprintf("fit coefficient x^%d", i), Float(c))
	}

	return s
}

// Writer renders sections as terminal tables.
type Writer struct {
	out     io.Writer
	heading *color.Color
}

// NewWriter creates a table writer. Headings are colored unless noColor is set.
func NewWriter(out io.Writer, noColor bool) *Writer {
	heading := color.New(color.FgCyan, color.Bold)
	if noColor {
		heading.DisableColor()
	} else {
		heading.EnableColor()
	}

	return &Writer{out: out, heading: heading}
}

// Write renders every section in order.
func (w *Writer) Write(sections ...Section) error {
	for _, sec := range sections {
		_, err := w.heading.Fprintln(w.out, sec.Title)
		if err != nil {
			return fmt.Errorf("write heading: %w", err)
		}

		tbl := table.NewWriter()
		tbl.SetOutputMirror(w.out)
		tbl.SetStyle(table.StyleLight)
		tbl.AppendHeader(table.Row{"Metric", "Value"})

		for _, row := range sec.Rows {
			tbl.AppendRow(table.Row{row.Metric, row.Value})
		}

		tbl.Render()

		_, err = fmt.Fprintln(w.out)
		if err != nil {
			return fmt.Errorf("write separator: %w", err)
		}
	}

	return nil
}
