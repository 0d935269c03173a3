package parser

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/LX-530/systerm/internal/model"
)

// Loader 销售数据加载器
//
// 清洗规则（顺序敏感）：
//  1. 一级分类向下填充——源表惯例是分类名只出现在每个分块的首行，
//     填充方向严格自上而下，必须发生在按商品名称过滤之前；
//  2. 剔除无商品名称的行（分块标题行、表尾合计行）；
//  3. 剔除填充后分类命中"汇总/总计"标记的行（透视表注入的小计行）；
//  4. 各数值列独立转换，单格解析失败只置空该字段并计入告警，不整行丢弃。
type Loader struct {
	mapping        ColumnMapping
	summaryMarkers []string
}

// DefaultSummaryMarkers 默认的汇总行标记子串
func DefaultSummaryMarkers() []string {
	return []string{"汇总", "总计"}
}

// NewLoader 创建加载器
func NewLoader(mapping ColumnMapping, summaryMarkers []string) *Loader {
	if summaryMarkers == nil {
		summaryMarkers = DefaultSummaryMarkers()
	}
	return &Loader{
		mapping:        mapping,
		summaryMarkers: summaryMarkers,
	}
}

// LoadFile 读取Excel文件中的指定工作表并清洗
func (l *Loader) LoadFile(path, sheet string) ([]model.Row, *LoadReport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, &InputError{Path: path, Reason: "无法打开输入文件", Err: err}
	}
	defer f.Close()

	rows, report, err := l.LoadWorkbook(f, sheet)
	if err != nil {
		if ie, ok := err.(*InputError); ok && ie.Path == "" {
			ie.Path = path
		}
		return nil, nil, err
	}
	return rows, report, nil
}

// LoadWorkbook 从已打开的工作簿中读取并清洗指定工作表
func (l *Loader) LoadWorkbook(f *excelize.File, sheet string) ([]model.Row, *LoadReport, error) {
	start := time.Now()

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, nil, &InputError{Sheet: sheet, Reason: "工作表不存在", Err: err}
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, &InputError{Sheet: sheet, Reason: "读取工作表失败", Err: err}
	}
	if len(raw) == 0 {
		return nil, nil, &InputError{Sheet: sheet, Reason: "工作表没有表头行"}
	}

	cols, err := l.resolveColumns(raw[0])
	if err != nil {
		return nil, nil, err
	}

	report := &LoadReport{
		Sheet:     sheet,
		TotalRows: len(raw) - 1,
	}

	var cleaned []model.Row
	currentCategory := ""
	for _, row := range raw[1:] {
		// 向下填充：非空分类更新填充值，空分类继承最近的上方值
		if v := cellAt(row, cols.category); v != "" {
			currentCategory = v
		}

		name := cellAt(row, cols.productName)
		if name == "" {
			report.DroppedNoName++
			continue
		}
		if currentCategory == "" {
			report.DroppedNoCategory++
			continue
		}
		if ContainsAny(currentCategory, l.summaryMarkers) {
			report.DroppedSummary++
			continue
		}

		r := model.Row{
			Category:    currentCategory,
			ProductName: name,
		}
		r.SalesAmount = l.coerceCell(row, cols.salesAmount, report)
		r.GrossProfit = l.coerceCell(row, cols.grossProfit, report)
		r.MarginRate = l.coerceCell(row, cols.marginRate, report)
		r.Contribution = l.coerceCell(row, cols.contribution, report)
		cleaned = append(cleaned, r)
	}

	report.CleanedRows = len(cleaned)
	report.Duration = time.Since(start)
	return cleaned, report, nil
}

// resolveColumns 按映射解析表头，校验必需列
func (l *Loader) resolveColumns(headers []string) (columnIndexes, error) {
	cols := columnIndexes{
		category:     -1,
		productName:  -1,
		salesAmount:  -1,
		grossProfit:  -1,
		marginRate:   -1,
		contribution: -1,
	}

	for i, h := range headers {
		switch NormalizeColumnName(h) {
		case NormalizeColumnName(l.mapping.Category):
			cols.category = i
		case NormalizeColumnName(l.mapping.ProductName):
			cols.productName = i
		case NormalizeColumnName(l.mapping.SalesAmount):
			cols.salesAmount = i
		case NormalizeColumnName(l.mapping.GrossProfit):
			cols.grossProfit = i
		case NormalizeColumnName(l.mapping.MarginRate):
			cols.marginRate = i
		case NormalizeColumnName(l.mapping.Contribution):
			cols.contribution = i
		}
	}

	if cols.category < 0 {
		return cols, &InputError{Reason: "缺少必需列: " + l.mapping.Category}
	}
	if cols.productName < 0 {
		return cols, &InputError{Reason: "缺少必需列: " + l.mapping.ProductName}
	}
	if cols.salesAmount < 0 && cols.grossProfit < 0 {
		return cols, &InputError{Reason: "缺少金额类列: 至少需要 " + l.mapping.SalesAmount + " 或 " + l.mapping.GrossProfit}
	}
	return cols, nil
}

// coerceCell 转换单元格为数值；空格为 nil，解析失败为 nil 并计入告警
func (l *Loader) coerceCell(row []string, idx int, report *LoadReport) *float64 {
	raw := cellAt(row, idx)
	if raw == "" {
		return nil
	}
	v, ok := parseNumeric(raw)
	if !ok {
		report.CoercionWarnings++
		return nil
	}
	return model.Float(v)
}

// cellAt 安全取单元格（excelize 的行切片会截断尾部空列）。
// 只做首尾去空格，不破坏名称内部的空格。
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
