package model

// Row 清洗后的单条销售记录（一个SKU在一个统计周期内的观测）
//
// 数值字段使用指针表达"缺失"：原始单元格为空或无法解析为数字时为 nil，
// 下游汇总时按字段独立处理（求和时跳过、均值/中位数不计入样本）。
type Row struct {
	Category     string   // 一级分类（向下填充后保证非空）
	ProductName  string   // 商品名称（必填，缺失行在清洗阶段剔除）
	SalesAmount  *float64 // 实际金额
	GrossProfit  *float64 // 销售毛利
	MarginRate   *float64 // 标品毛利率（小数，0.12 表示 12%）
	Contribution *float64 // 贡献值（可选列）
}

// Float 构造浮点指针，便于组装测试数据和解析结果
func Float(v float64) *float64 {
	return &v
}
