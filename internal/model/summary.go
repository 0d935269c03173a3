package model

// CategorySummary 品类汇总（每个一级分类一行）
//
// AvgMarginRate 是行级毛利率的算术平均，RealizedMarginRate 是
// 毛利合计/金额合计的口径毛利率。两者在品类内商品结构不均衡时会
// 显著偏离：均值对每个SKU等权，口径毛利率按销售额加权。对外展示
// 时两者并列保留，阈值分层一律使用口径毛利率。
type CategorySummary struct {
	Category           string
	SalesAmount        float64 // 金额合计
	GrossProfit        float64 // 毛利合计
	AvgMarginRate      float64 // 行级毛利率均值（小数）
	MedianMarginRate   float64 // 行级毛利率中位数（小数）
	SKUCount           int     // 去重商品数
	RealizedMarginRate float64 // 毛利合计/金额合计（小数，分母非正时为 0）
}

// ProductSummary 单品汇总（每个 品类+商品 组合一行）
type ProductSummary struct {
	Category           string
	ProductName        string
	SalesAmount        float64
	GrossProfit        float64
	AvgMarginRate      float64
	MedianMarginRate   float64
	RealizedMarginRate float64
}

// Metrics 全表整体指标（报告概览用）
type Metrics struct {
	RowCount      int     // 清洗后SKU记录数
	TotalAmount   float64 // 总销售金额
	TotalProfit   float64 // 总毛利额
	AvgMarginRate float64 // 平均毛利率（百分比）
	MaxMarginRate float64 // 最高毛利率（百分比）
	MinMarginRate float64 // 最低毛利率（百分比）
	RateSamples   int     // 参与毛利率统计的行数
}
