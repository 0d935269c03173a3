package parser_test

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/LX-530/systerm/internal/parser"
)

const testSheet = "销售数据"

// buildWorkbook 构造内存工作簿，首行为表头
func buildWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", testSheet); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName failed: %v", err)
		}
		if err := f.SetSheetRow(testSheet, cell, &rows[i]); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	return f
}

func defaultHeaders() []interface{} {
	return []interface{}{"一级分类", "商品名称", "求和项:实际金额", "求和项:销售毛利", "求和项:标品毛利率", "求和项:贡献值"}
}

func newTestLoader() *parser.Loader {
	return parser.NewLoader(parser.DefaultColumnMapping(), nil)
}

func TestLoadWorkbook_CleanScenario(t *testing.T) {
	t.Parallel()

	// 分类只出现在分块首行；中间行数值缺失；末行是无商品名的分块标题
	wb := buildWorkbook(t, [][]interface{}{
		defaultHeaders(),
		{"A", "p1", "1000", "50", "0.05", ""},
		{"", "p2", "", "", "", ""},
		{"B", "", "", "", "", ""},
	})

	rows, report, err := newTestLoader().LoadWorkbook(wb, testSheet)
	if err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("cleaned rows=%d, want 2", len(rows))
	}
	for i, r := range rows {
		if r.Category != "A" {
			t.Fatalf("row %d category=%q, want A", i, r.Category)
		}
		if r.ProductName == "" {
			t.Fatalf("row %d has empty product name", i)
		}
	}
	if rows[0].SalesAmount == nil || *rows[0].SalesAmount != 1000 {
		t.Fatalf("row 0 SalesAmount=%v, want 1000", rows[0].SalesAmount)
	}
	if rows[1].SalesAmount != nil {
		t.Fatalf("row 1 SalesAmount should be nil")
	}
	if report.TotalRows != 3 || report.CleanedRows != 2 || report.DroppedNoName != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.CoercionWarnings != 0 {
		t.Fatalf("empty cells must not count as coercion warnings, got %d", report.CoercionWarnings)
	}
}

func TestLoadWorkbook_ForwardFillBeforeFilter(t *testing.T) {
	t.Parallel()

	// 分块标题行（无商品名）携带分类值，剔除前必须先完成填充
	wb := buildWorkbook(t, [][]interface{}{
		defaultHeaders(),
		{"饮料", "", "", "", "", ""},
		{"", "可乐", "100", "10", "0.1", ""},
		{"", "雪碧", "200", "20", "0.1", ""},
		{"零食", "", "", "", "", ""},
		{"", "薯片", "300", "60", "0.2", ""},
	})

	rows, _, err := newTestLoader().LoadWorkbook(wb, testSheet)
	if err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("cleaned rows=%d, want 3", len(rows))
	}
	wantCats := []string{"饮料", "饮料", "零食"}
	for i, want := range wantCats {
		if rows[i].Category != want {
			t.Fatalf("row %d category=%q, want %q", i, rows[i].Category, want)
		}
	}
}

func TestLoadWorkbook_DropsSummaryRows(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, [][]interface{}{
		defaultHeaders(),
		{"饮料", "可乐", "100", "10", "0.1", ""},
		{"饮料 汇总", "可乐", "100", "10", "0.1", ""},
		{"总计", "可乐", "999", "99", "0.1", ""},
		{"零食", "薯片", "300", "60", "0.2", ""},
	})

	rows, report, err := newTestLoader().LoadWorkbook(wb, testSheet)
	if err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("cleaned rows=%d, want 2", len(rows))
	}
	if report.DroppedSummary != 2 {
		t.Fatalf("DroppedSummary=%d, want 2", report.DroppedSummary)
	}
}

func TestLoadWorkbook_CoercionWarnings(t *testing.T) {
	t.Parallel()

	// 单列解析失败不影响同行其他列
	wb := buildWorkbook(t, [][]interface{}{
		defaultHeaders(),
		{"饮料", "可乐", "abc", "10", "0.1", ""},
	})

	rows, report, err := newTestLoader().LoadWorkbook(wb, testSheet)
	if err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("cleaned rows=%d, want 1 (行必须保留)", len(rows))
	}
	if rows[0].SalesAmount != nil {
		t.Fatalf("SalesAmount should be nil after failed coercion")
	}
	if rows[0].GrossProfit == nil || *rows[0].GrossProfit != 10 {
		t.Fatalf("GrossProfit=%v, want 10", rows[0].GrossProfit)
	}
	if report.CoercionWarnings != 1 {
		t.Fatalf("CoercionWarnings=%d, want 1", report.CoercionWarnings)
	}
}

func TestLoadWorkbook_MissingRequiredColumn(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, [][]interface{}{
		{"一级分类", "求和项:实际金额"},
		{"饮料", "100"},
	})

	_, _, err := newTestLoader().LoadWorkbook(wb, testSheet)
	var ie *parser.InputError
	if !errors.As(err, &ie) {
		t.Fatalf("want InputError, got %v", err)
	}
}

func TestLoadWorkbook_MissingAmountColumns(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, [][]interface{}{
		{"一级分类", "商品名称", "求和项:标品毛利率"},
		{"饮料", "可乐", "0.1"},
	})

	_, _, err := newTestLoader().LoadWorkbook(wb, testSheet)
	var ie *parser.InputError
	if !errors.As(err, &ie) {
		t.Fatalf("want InputError, got %v", err)
	}
}

func TestLoadWorkbook_MissingSheet(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, [][]interface{}{defaultHeaders()})

	_, _, err := newTestLoader().LoadWorkbook(wb, "不存在的表")
	var ie *parser.InputError
	if !errors.As(err, &ie) {
		t.Fatalf("want InputError, got %v", err)
	}
}

func TestLoadWorkbook_EmptyDataIsNotError(t *testing.T) {
	t.Parallel()

	wb := buildWorkbook(t, [][]interface{}{defaultHeaders()})

	rows, report, err := newTestLoader().LoadWorkbook(wb, testSheet)
	if err != nil {
		t.Fatalf("LoadWorkbook failed: %v", err)
	}
	if len(rows) != 0 || report.CleanedRows != 0 {
		t.Fatalf("expected empty result, rows=%d", len(rows))
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := newTestLoader().LoadFile("/no/such/file.xlsx", testSheet)
	var ie *parser.InputError
	if !errors.As(err, &ie) {
		t.Fatalf("want InputError, got %v", err)
	}
}
