package exporter

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/LX-530/systerm/internal/model"
)

// 图表文件名
const (
	FileChartCategoryAmount = "category_amount.png"
	FileChartCategoryRate   = "category_margin_rate.png"
	FileChartMarginHist     = "margin_distribution.png"
	FileChartAmountRate     = "amount_vs_rate.png"
)

// ChartStyle 图表样式。显式传入渲染器，不使用任何进程级全局样式状态。
type ChartStyle struct {
	Width      vg.Length
	Height     vg.Length
	BarWidth   vg.Length
	BarColor   color.Color
	PointColor color.Color
	HistBins   int
}

// DefaultChartStyle 默认样式
func DefaultChartStyle() ChartStyle {
	return ChartStyle{
		Width:      10 * vg.Inch,
		Height:     6 * vg.Inch,
		BarWidth:   vg.Points(20),
		BarColor:   color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff},
		PointColor: color.RGBA{R: 0xdd, G: 0x84, B: 0x52, A: 0xff},
		HistBins:   40,
	}
}

// ChartRenderer 图表渲染器。只消费汇总结果，不回写任何管线状态。
type ChartRenderer struct {
	style ChartStyle
}

// NewChartRenderer 创建渲染器
func NewChartRenderer(style ChartStyle) *ChartRenderer {
	return &ChartRenderer{style: style}
}

// RenderAll 渲染全部图表到 dir，返回生成的文件名。
// 空数据集对应的图直接跳过，不视为错误。
func (r *ChartRenderer) RenderAll(dir string, rows []model.Row, cats []model.CategorySummary, topN int) ([]string, error) {
	var names []string

	if len(cats) > 0 {
		if err := r.categoryAmountBar(filepath.Join(dir, FileChartCategoryAmount), cats, topN); err != nil {
			return nil, err
		}
		names = append(names, FileChartCategoryAmount)

		if err := r.categoryRateBar(filepath.Join(dir, FileChartCategoryRate), cats, topN); err != nil {
			return nil, err
		}
		names = append(names, FileChartCategoryRate)

		if err := r.amountRateScatter(filepath.Join(dir, FileChartAmountRate), cats); err != nil {
			return nil, err
		}
		names = append(names, FileChartAmountRate)
	}

	rates := marginRates(rows)
	if len(rates) > 0 {
		if err := r.marginHistogram(filepath.Join(dir, FileChartMarginHist), rates); err != nil {
			return nil, err
		}
		names = append(names, FileChartMarginHist)
	}

	return names, nil
}

// categoryAmountBar 品类销售额条形图（按金额取Top N）
func (r *ChartRenderer) categoryAmountBar(path string, cats []model.CategorySummary, topN int) error {
	top := topCategories(cats, topN, func(a, b model.CategorySummary) bool {
		return a.SalesAmount > b.SalesAmount
	})

	values := make(plotter.Values, len(top))
	labels := make([]string, len(top))
	for i, c := range top {
		values[i] = c.SalesAmount
		labels[i] = c.Category
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("品类销售额 Top %d", len(top))
	p.Y.Label.Text = "销售额"

	bars, err := plotter.NewBarChart(values, r.style.BarWidth)
	if err != nil {
		return fmt.Errorf("生成销售额条形图失败: %w", err)
	}
	bars.Color = r.style.BarColor
	bars.LineStyle.Width = 0
	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.9
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	if err := p.Save(r.style.Width, r.style.Height, path); err != nil {
		return fmt.Errorf("保存销售额条形图失败: %w", err)
	}
	return nil
}

// categoryRateBar 品类口径毛利率条形图（按毛利率取Top N，百分比口径）
func (r *ChartRenderer) categoryRateBar(path string, cats []model.CategorySummary, topN int) error {
	top := topCategories(cats, topN, func(a, b model.CategorySummary) bool {
		return a.RealizedMarginRate > b.RealizedMarginRate
	})

	values := make(plotter.Values, len(top))
	labels := make([]string, len(top))
	for i, c := range top {
		values[i] = c.RealizedMarginRate * 100
		labels[i] = c.Category
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("品类毛利率 Top %d", len(top))
	p.Y.Label.Text = "毛利率 (%)"

	bars, err := plotter.NewBarChart(values, r.style.BarWidth)
	if err != nil {
		return fmt.Errorf("生成毛利率条形图失败: %w", err)
	}
	bars.Color = r.style.BarColor
	bars.LineStyle.Width = 0
	p.Add(bars, plotter.NewGrid())
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.9
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	if err := p.Save(r.style.Width, r.style.Height, path); err != nil {
		return fmt.Errorf("保存毛利率条形图失败: %w", err)
	}
	return nil
}

// marginHistogram 单品毛利率分布直方图（百分比口径）
func (r *ChartRenderer) marginHistogram(path string, rates []float64) error {
	values := make(plotter.Values, len(rates))
	copy(values, rates)

	p := plot.New()
	p.Title.Text = "单品毛利率分布"
	p.X.Label.Text = "毛利率 (%)"
	p.Y.Label.Text = "商品数量"

	hist, err := plotter.NewHist(values, r.style.HistBins)
	if err != nil {
		return fmt.Errorf("生成毛利率直方图失败: %w", err)
	}
	hist.FillColor = r.style.BarColor
	p.Add(hist)

	if err := p.Save(r.style.Width, r.style.Height, path); err != nil {
		return fmt.Errorf("保存毛利率直方图失败: %w", err)
	}
	return nil
}

// amountRateScatter 品类 金额-毛利率 散点图
func (r *ChartRenderer) amountRateScatter(path string, cats []model.CategorySummary) error {
	points := make(plotter.XYs, len(cats))
	for i, c := range cats {
		points[i].X = c.SalesAmount
		points[i].Y = c.RealizedMarginRate * 100
	}

	p := plot.New()
	p.Title.Text = "品类金额-毛利率关系"
	p.X.Label.Text = "销售额"
	p.Y.Label.Text = "毛利率 (%)"

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("生成散点图失败: %w", err)
	}
	scatter.GlyphStyle.Color = r.style.PointColor
	scatter.GlyphStyle.Radius = vg.Points(4)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter, plotter.NewGrid())

	if err := p.Save(r.style.Width, r.style.Height, path); err != nil {
		return fmt.Errorf("保存散点图失败: %w", err)
	}
	return nil
}

// topCategories 复制后排序取前N
func topCategories(cats []model.CategorySummary, n int, less func(a, b model.CategorySummary) bool) []model.CategorySummary {
	sorted := make([]model.CategorySummary, len(cats))
	copy(sorted, cats)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// marginRates 收集行级毛利率（百分比口径），缺失值跳过
func marginRates(rows []model.Row) []float64 {
	var rates []float64
	for _, r := range rows {
		if r.MarginRate != nil {
			rates = append(rates, *r.MarginRate*100)
		}
	}
	return rates
}
