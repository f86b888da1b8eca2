package report

import (
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/semverpop/pkg/alg/stats"
	"github.com/Sumatoshi-tech/semverpop/pkg/popularity"
	"github.com/Sumatoshi-tech/semverpop/pkg/summary"
)

// Chart dimensions and series names.
const (
	chartWidth  = "100%"
	chartHeight = "500px"

	seriesBreaking  = "breaking changes"
	seriesExtension = "illegal API extensions"
	seriesFit       = "fit"

	axisValue    = "value"
	axisLog      = "log"
	axisCategory = "category"

	fitSamples   = 50
	labelDecimal = 1
)

// NamedValues is one labelled group of values, such as the violation ratios
// of one side.
type NamedValues struct {
	Name   string
	Values []float64
}

// ViolationHistogram buckets the violation percentages of both sides into
// bins equal-width bins over [0, rng].
func ViolationHistogram(c *ChartOpts, bc, aix []float64, bins int, rng float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(c.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(c.Title("Violations per versioned package", "share of methods with violations")),
		charts.WithTooltipOpts(c.Tooltip("axis")),
		charts.WithLegendOpts(c.Legend()),
		charts.WithGridOpts(c.Grid()),
		charts.WithXAxisOpts(c.XAxis("% of methods", axisCategory)),
		charts.WithYAxisOpts(c.YAxis("versioned packages", axisValue)),
	)

	labels := make([]string, bins)
	width := rng / float64(max(bins, 1))

	for i := range labels {
		labels[i] = strconv.FormatFloat(float64(i)*width, 'f', labelDecimal, 64)
	}

	bar.SetXAxis(labels)
	bar.AddSeries(seriesBreaking, barData(stats.Histogram(bc, bins, 0, rng)),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: c.theme.Breaking}))
	bar.AddSeries(seriesExtension, barData(stats.Histogram(aix, bins, 0, rng)),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: c.theme.Extension}))

	return bar
}

func barData(counts []int) []opts.BarData {
	out := make([]opts.BarData, len(counts))
	for i, v := range counts {
		out[i] = opts.BarData{Value: v}
	}

	return out
}

// TrendChart plots violations over method counts on log-log axes with a
// straight line fitted in log space. The line is omitted when fewer than two
// distinct method counts exist.
func TrendChart(c *ChartOpts, name string, points []summary.TrendPoint) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(c.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(c.Title("Violations by package size", name)),
		charts.WithTooltipOpts(c.Tooltip("item")),
		charts.WithLegendOpts(c.Legend()),
		charts.WithGridOpts(c.Grid()),
		charts.WithXAxisOpts(c.XAxis("methods", axisLog)),
		charts.WithYAxisOpts(c.YAxis("violations", axisLog)),
	)

	data := make([]opts.ScatterData, len(points))
	logX := make([]float64, len(points))
	logY := make([]float64, len(points))

	for i, p := range points {
		data[i] = opts.ScatterData{Value: []float64{p.Methods, p.Violations}}
		logX[i] = math.Log10(p.Methods)
		logY[i] = math.Log10(p.Violations)
	}

	scatter.AddSeries(name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: c.theme.Breaking}))

	coef, err := stats.PolyFit(logX, logY, 1)
	if err != nil {
		return scatter
	}

	lo, hi := stats.Min(logX), stats.Max(logX)
	line := charts.NewLine()
	line.AddSeries(seriesFit, []opts.LineData{
		{Value: []float64{math.Pow(10, lo), math.Pow(10, stats.PolyEval(coef, lo))}},
		{Value: []float64{math.Pow(10, hi), math.Pow(10, stats.PolyEval(coef, hi))}},
	}, fitStyle(c)...)
	scatter.Overlap(line)

	return scatter
}

// DensityChart overlays the kernel density estimates of breaking and other
// callables for one metric.
func DensityChart(c *ChartOpts, metric string, cmp popularity.Comparison) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(c.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(c.Title("Popularity density", metric)),
		charts.WithTooltipOpts(c.Tooltip("axis")),
		charts.WithLegendOpts(c.Legend()),
		charts.WithGridOpts(c.Grid()),
		charts.WithXAxisOpts(c.XAxis(metric, axisValue)),
		charts.WithYAxisOpts(c.YAxis("density", axisValue)),
		charts.WithDataZoomOpts(c.DataZoom()...),
	)

	line.AddSeries("callables with breaking changes", xyLine(cmp.BreakingDensity.X, cmp.BreakingDensity.Y),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: c.theme.Breaking}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.3)}),
	)
	line.AddSeries("other callables", xyLine(cmp.OthersDensity.X, cmp.OthersDensity.Y),
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: c.theme.Extension}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.3)}),
	)

	return line
}

// CurveChart plots the binned method popularity with its fitted polynomial
// and marks the balance point when one exists.
func CurveChart(c *ChartOpts, metric string, curve popularity.Curve) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(c.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(c.Title("Method popularity by position", metric)),
		charts.WithTooltipOpts(c.Tooltip("item")),
		charts.WithLegendOpts(c.Legend()),
		charts.WithGridOpts(c.Grid()),
		charts.WithXAxisOpts(c.XAxis("methods", axisValue)),
		charts.WithYAxisOpts(c.YAxis(metric, axisValue)),
	)

	scatter.AddSeries("bin mean", xyScatter(curve.BinX, curve.BinY),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: c.theme.Extension}))

	seriesOpts := fitStyle(c)
	if curve.HasCutoff {
		seriesOpts = append(seriesOpts,
			charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
				Name:  "cutoff",
				XAxis: curve.Cutoff.X,
			}),
			charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Label:     &opts.Label{Show: opts.Bool(true), Formatter: "cutoff"},
				LineStyle: &opts.LineStyle{Color: c.theme.Cutoff, Type: "dashed"},
			}),
		)
	}

	line := charts.NewLine()
	line.AddSeries(seriesFit, xyLine(curve.FitX, curve.FitY), seriesOpts...)
	scatter.Overlap(line)

	return scatter
}

// WindowChart plots the share of violating packages per popularity window
// with the fitted trend.
func WindowChart(c *ChartOpts, rep popularity.PackageReport) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(c.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(c.Title("Violations by package popularity", "ratio per window")),
		charts.WithTooltipOpts(c.Tooltip("item")),
		charts.WithLegendOpts(c.Legend()),
		charts.WithGridOpts(c.Grid()),
		charts.WithXAxisOpts(c.XAxis("popularity of versioned packages", axisValue)),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "ratio with violations",
			Type: axisValue,
			Min:  0,
			Max:  1,
		}),
	)

	xs := make([]float64, len(rep.Windows))
	ys := make([]float64, len(rep.Windows))

	for i, w := range rep.Windows {
		xs[i], ys[i] = w.Lo, w.Ratio
	}

	scatter.AddSeries("window", xyScatter(xs, ys), charts.WithItemStyleOpts(opts.ItemStyle{Color: c.theme.Breaking}))

	if len(rep.Coef) > 0 && len(xs) > 0 {
		fitX := stats.Linspace(stats.Min(xs), stats.Max(xs), fitSamples)
		line := charts.NewLine()
		line.AddSeries(seriesFit, xyLine(fitX, stats.PolyEvalAll(rep.Coef, fitX)), fitStyle(c)...)
		scatter.Overlap(line)
	}

	return scatter
}

// RatioBoxPlot draws one box per group: minimum, quartiles and maximum.
// Empty groups are skipped.
func RatioBoxPlot(c *ChartOpts, title string, groups []NamedValues) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithInitializationOpts(c.Init(chartWidth, chartHeight)),
		charts.WithTitleOpts(c.Title(title, "")),
		charts.WithTooltipOpts(c.Tooltip("item")),
		charts.WithGridOpts(c.Grid()),
		charts.WithXAxisOpts(c.XAxis("", axisCategory)),
		charts.WithYAxisOpts(c.YAxis("ratio", axisValue)),
	)

	var (
		labels []string
		data   []opts.BoxPlotData
	)

	for _, g := range groups {
		if len(g.Values) == 0 {
			continue
		}

		labels = append(labels, g.Name)
		data = append(data, opts.BoxPlotData{Name: g.Name, Value: fiveNumber(g.Values)})
	}

	box.SetXAxis(labels)
	box.AddSeries(title, data, charts.WithItemStyleOpts(opts.ItemStyle{BorderColor: c.theme.Breaking}))

	return box
}

const (
	quartileLow  = 0.25
	quartileHigh = 0.75
)

func fiveNumber(values []float64) []float64 {
	return []float64{
		stats.Min(values),
		stats.Percentile(values, quartileLow),
		stats.Median(values),
		stats.Percentile(values, quartileHigh),
		stats.Max(values),
	}
}

func fitStyle(c *ChartOpts) []charts.SeriesOpts {
	return []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: c.theme.Fit, Width: 2}),
	}
}

func xyLine(xs, ys []float64) []opts.LineData {
	n := min(len(xs), len(ys))
	out := make([]opts.LineData, n)

	for i := range n {
		out[i] = opts.LineData{Value: []float64{xs[i], ys[i]}}
	}

	return out
}

func xyScatter(xs, ys []float64) []opts.ScatterData {
	n := min(len(xs), len(ys))
	out := make([]opts.ScatterData, n)

	for i := range n {
		out[i] = opts.ScatterData{Value: []float64{xs[i], ys[i]}}
	}

	return out
}
