package parser

import "time"

// ColumnMapping 逻辑字段到Excel物理列名的映射
//
// 列名属于配置而非代码：不同口径的导出表列名不同，
// 通过配置覆盖即可适配，解析逻辑不感知具体列名。
type ColumnMapping struct {
	Category     string // 一级分类列
	ProductName  string // 商品名称列
	SalesAmount  string // 实际金额列
	GrossProfit  string // 销售毛利列
	MarginRate   string // 标品毛利率列
	Contribution string // 贡献值列（可选）
}

// DefaultColumnMapping 源数据表的默认列名
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Category:     "一级分类",
		ProductName:  "商品名称",
		SalesAmount:  "求和项:实际金额",
		GrossProfit:  "求和项:销售毛利",
		MarginRate:   "求和项:标品毛利率",
		Contribution: "求和项:贡献值",
	}
}

// columnIndexes 表头解析结果，-1 表示该列不存在
type columnIndexes struct {
	category     int
	productName  int
	salesAmount  int
	grossProfit  int
	marginRate   int
	contribution int
}

// LoadReport 数据加载报告
type LoadReport struct {
	Sheet             string        `json:"sheet"`
	TotalRows         int           `json:"totalRows"`   // 数据行总数（不含表头）
	CleanedRows       int           `json:"cleanedRows"` // 清洗后保留行数
	DroppedNoName     int           `json:"droppedNoName"`
	DroppedSummary    int           `json:"droppedSummary"`    // 汇总/总计行
	DroppedNoCategory int           `json:"droppedNoCategory"` // 填充后仍无分类
	CoercionWarnings  int           `json:"coercionWarnings"`  // 数值解析失败的单元格数
	Duration          time.Duration `json:"duration"`
}
