package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/LX-530/systerm/internal/calculator"
	"github.com/LX-530/systerm/internal/model"
)

func sampleExportData() ExportData {
	rows := []model.Row{
		{Category: "饮料", ProductName: "可乐", SalesAmount: model.Float(40000), GrossProfit: model.Float(800), MarginRate: model.Float(0.02)},
		{Category: "饮料", ProductName: "雪碧", SalesAmount: model.Float(1000), GrossProfit: model.Float(250), MarginRate: model.Float(0.25)},
		{Category: "零食", ProductName: "薯片", SalesAmount: model.Float(2000), GrossProfit: model.Float(400), MarginRate: model.Float(0.2)},
	}
	cats := calculator.SummarizeByCategory(rows)
	prods := calculator.SummarizeByProduct(rows)
	th := calculator.DefaultThresholds()
	cls := calculator.NewClassifier(th)
	entities := calculator.CategoryEntities(cats)

	return ExportData{
		Rows:       rows,
		Categories: cats,
		Products:   prods,
		Metrics:    calculator.OverallMetrics(rows),
		Tiers:      cls.Classify(entities),
		Health:     cls.HealthStats(entities),
		Views:      calculator.BuildProductViews(prods, th),
		Thresholds: th,
	}
}

func TestExportAll_ProducesAllArtifacts(t *testing.T) {
	t.Parallel()

	outDir := filepath.Join(t.TempDir(), "outputs")
	files, err := New(10, DefaultChartStyle()).ExportAll(outDir, sampleExportData())
	if err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}

	want := []string{
		FileCategorySummary, FileProductSummary,
		FileHighMargin, FileLowMargin, FileZeroMargin,
		FileWorkbook, FileReport,
		FileChartCategoryAmount, FileChartCategoryRate,
		FileChartAmountRate, FileChartMarginHist,
	}
	if len(files) != len(want) {
		t.Fatalf("files=%d, want %d: %v", len(files), len(want), files)
	}
	for _, name := range want {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	// 暂存目录必须已清理
	entries, err := os.ReadDir(filepath.Dir(outDir))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "outputs" {
			t.Fatalf("staging directory left behind: %s", e.Name())
		}
	}
}

func TestExportAll_CategoryCSVContent(t *testing.T) {
	t.Parallel()

	outDir := filepath.Join(t.TempDir(), "outputs")
	data := sampleExportData()
	if _, err := New(10, DefaultChartStyle()).ExportAll(outDir, data); err != nil {
		t.Fatalf("ExportAll failed: %v", err)
	}

	f, err := os.Open(filepath.Join(outDir, FileCategorySummary))
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != len(data.Categories)+1 {
		t.Fatalf("csv rows=%d, want %d", len(records), len(data.Categories)+1)
	}
	if records[0][0] != "category" || records[0][6] != "realized_margin_rate" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][0] != "饮料" {
		t.Fatalf("unexpected first category: %v", records[1])
	}
}

func TestExportAll_EmptyData(t *testing.T) {
	t.Parallel()

	th := calculator.DefaultThresholds()
	data := ExportData{Thresholds: th, Health: calculator.NewClassifier(th).HealthStats(nil)}

	outDir := filepath.Join(t.TempDir(), "outputs")
	files, err := New(10, DefaultChartStyle()).ExportAll(outDir, data)
	if err != nil {
		t.Fatalf("ExportAll on empty data failed: %v", err)
	}

	// 图表随空数据跳过，表格与报告仍然产出
	for _, name := range []string{FileCategorySummary, FileProductSummary, FileReport} {
		found := false
		for _, f := range files {
			if filepath.Base(f) == name {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing artifact %s on empty data", name)
		}
	}
}

func TestWriteSummaryWorkbook_Readback(t *testing.T) {
	t.Parallel()

	data := sampleExportData()
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := WriteSummaryWorkbook(path, data.Categories, data.Products); err != nil {
		t.Fatalf("WriteSummaryWorkbook failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("品类汇总")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != len(data.Categories)+1 {
		t.Fatalf("workbook rows=%d, want %d", len(rows), len(data.Categories)+1)
	}

	prodRows, err := f.GetRows("单品汇总")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(prodRows) != len(data.Products)+1 {
		t.Fatalf("product rows=%d, want %d", len(prodRows), len(data.Products)+1)
	}
}
