package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/LX-530/systerm/internal/calculator"
	"github.com/LX-530/systerm/internal/model"
	"github.com/LX-530/systerm/internal/util"
)

// 输出产物文件名
const (
	FileCategorySummary = "category_summary.csv"
	FileProductSummary  = "product_summary.csv"
	FileHighMargin      = "high_margin_products.csv"
	FileLowMargin       = "low_margin_products.csv"
	FileZeroMargin      = "zero_margin_products.csv"
	FileWorkbook        = "analysis_summary.xlsx"
	FileReport          = "analysis_report.md"
)

// ExportData 一次导出所需的全部输入
type ExportData struct {
	Rows       []model.Row
	Categories []model.CategorySummary
	Products   []model.ProductSummary
	Metrics    model.Metrics
	Tiers      calculator.TierResult
	Health     calculator.HealthStats
	Views      calculator.ProductViews
	Thresholds calculator.Thresholds
}

// Exporter 分析结果导出器
//
// 所有产物先写入同级的临时暂存目录，全部成功后再移入输出目录，
// 保证失败时不会留下写了一半的输出目录。
type Exporter struct {
	topN  int
	style ChartStyle
}

// New 创建导出器
func New(topN int, style ChartStyle) *Exporter {
	return &Exporter{topN: topN, style: style}
}

// ExportAll 导出全部产物到 outDir，返回最终文件路径列表
func (e *Exporter) ExportAll(outDir string, data ExportData) ([]string, error) {
	parent := filepath.Dir(filepath.Clean(outDir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出父目录失败: %w", err)
	}

	staging, err := os.MkdirTemp(parent, ".systerm-stage-")
	if err != nil {
		return nil, fmt.Errorf("创建暂存目录失败: %w", err)
	}
	defer os.RemoveAll(staging)

	names, err := e.writeArtifacts(staging, data)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	files := make([]string, 0, len(names))
	for _, name := range names {
		dst := filepath.Join(outDir, name)
		if err := os.Rename(filepath.Join(staging, name), dst); err != nil {
			return nil, fmt.Errorf("移动产物 %s 失败: %w", name, err)
		}
		files = append(files, dst)
	}
	return files, nil
}

// writeArtifacts 在暂存目录内生成全部产物，返回文件名列表
func (e *Exporter) writeArtifacts(dir string, data ExportData) ([]string, error) {
	var names []string

	if err := writeCategoryCSV(filepath.Join(dir, FileCategorySummary), data.Categories); err != nil {
		return nil, err
	}
	names = append(names, FileCategorySummary)

	if err := writeProductCSV(filepath.Join(dir, FileProductSummary), data.Products); err != nil {
		return nil, err
	}
	names = append(names, FileProductSummary)

	filtered := []struct {
		name  string
		prods []model.ProductSummary
	}{
		{FileHighMargin, data.Views.High},
		{FileLowMargin, data.Views.Low},
		{FileZeroMargin, data.Views.Zero},
	}
	for _, fv := range filtered {
		if err := writeProductCSV(filepath.Join(dir, fv.name), fv.prods); err != nil {
			return nil, err
		}
		names = append(names, fv.name)
	}

	if err := WriteSummaryWorkbook(filepath.Join(dir, FileWorkbook), data.Categories, data.Products); err != nil {
		return nil, err
	}
	names = append(names, FileWorkbook)

	report := BuildReport(ReportData{
		GeneratedAt:   time.Now(),
		RunID:         uuid.NewString(),
		Metrics:       data.Metrics,
		CategoryCount: len(data.Categories),
		Tiers:         data.Tiers,
		Health:        data.Health,
		Thresholds:    data.Thresholds,
	})
	if err := os.WriteFile(filepath.Join(dir, FileReport), []byte(report), 0o644); err != nil {
		return nil, fmt.Errorf("写入分析报告失败: %w", err)
	}
	names = append(names, FileReport)

	charts, err := NewChartRenderer(e.style).RenderAll(dir, data.Rows, data.Categories, e.topN)
	if err != nil {
		return nil, err
	}
	names = append(names, charts...)

	return names, nil
}

var categoryHeader = []string{
	"category", "sales_amount", "gross_profit",
	"avg_margin_rate", "median_margin_rate", "sku_count", "realized_margin_rate",
}

var productHeader = []string{
	"category", "product_name", "sales_amount", "gross_profit",
	"avg_margin_rate", "median_margin_rate", "realized_margin_rate",
}

// writeCategoryCSV 导出品类汇总表
func writeCategoryCSV(path string, summaries []model.CategorySummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Category,
			util.FormatFloat(s.SalesAmount),
			util.FormatFloat(s.GrossProfit),
			util.FormatFloat(s.AvgMarginRate),
			util.FormatFloat(s.MedianMarginRate),
			strconv.Itoa(s.SKUCount),
			util.FormatFloat(s.RealizedMarginRate),
		})
	}
	return writeCSV(path, categoryHeader, records)
}

// writeProductCSV 导出单品表（汇总表和过滤视图共用）
func writeProductCSV(path string, summaries []model.ProductSummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.Category,
			s.ProductName,
			util.FormatFloat(s.SalesAmount),
			util.FormatFloat(s.GrossProfit),
			util.FormatFloat(s.AvgMarginRate),
			util.FormatFloat(s.MedianMarginRate),
			util.FormatFloat(s.RealizedMarginRate),
		})
	}
	return writeCSV(path, productHeader, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建CSV失败: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("写入CSV表头失败: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("写入CSV失败: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("写入CSV失败: %w", err)
	}
	return f.Close()
}
