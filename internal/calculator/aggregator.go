package calculator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/LX-530/systerm/internal/model"
)

// 汇总口径说明：
//   - 金额/毛利求和时跳过缺失值（nil 不按 0 计）；
//   - 毛利率均值/中位数只统计有值的行；
//   - RealizedMarginRate = 毛利合计/金额合计，分母非正或结果非有限时取 0，
//     保证下游阈值比较不会遇到 NaN/Inf。
// 输出顺序为分组键在清洗数据中的首次出现顺序，展示排序由各消费方自理。

// categoryAcc 单个品类的归并中间态
type categoryAcc struct {
	amountSum float64
	profitSum float64
	rates     []float64
	products  map[string]struct{}
}

// SummarizeByCategory 按一级分类汇总
func SummarizeByCategory(rows []model.Row) []model.CategorySummary {
	accs := make(map[string]*categoryAcc)
	var order []string

	for _, r := range rows {
		acc, ok := accs[r.Category]
		if !ok {
			acc = &categoryAcc{products: make(map[string]struct{})}
			accs[r.Category] = acc
			order = append(order, r.Category)
		}
		if r.SalesAmount != nil {
			acc.amountSum += *r.SalesAmount
		}
		if r.GrossProfit != nil {
			acc.profitSum += *r.GrossProfit
		}
		if r.MarginRate != nil {
			acc.rates = append(acc.rates, *r.MarginRate)
		}
		acc.products[r.ProductName] = struct{}{}
	}

	summaries := make([]model.CategorySummary, 0, len(order))
	for _, cat := range order {
		acc := accs[cat]
		summaries = append(summaries, model.CategorySummary{
			Category:           cat,
			SalesAmount:        acc.amountSum,
			GrossProfit:        acc.profitSum,
			AvgMarginRate:      meanOf(acc.rates),
			MedianMarginRate:   medianOf(acc.rates),
			SKUCount:           len(acc.products),
			RealizedMarginRate: realizedRate(acc.profitSum, acc.amountSum),
		})
	}
	return summaries
}

// productKey 单品分组键
type productKey struct {
	category string
	product  string
}

// productAcc 单个单品的归并中间态
type productAcc struct {
	amountSum float64
	profitSum float64
	rates     []float64
}

// SummarizeByProduct 按 品类+商品 汇总
func SummarizeByProduct(rows []model.Row) []model.ProductSummary {
	accs := make(map[productKey]*productAcc)
	var order []productKey

	for _, r := range rows {
		key := productKey{category: r.Category, product: r.ProductName}
		acc, ok := accs[key]
		if !ok {
			acc = &productAcc{}
			accs[key] = acc
			order = append(order, key)
		}
		if r.SalesAmount != nil {
			acc.amountSum += *r.SalesAmount
		}
		if r.GrossProfit != nil {
			acc.profitSum += *r.GrossProfit
		}
		if r.MarginRate != nil {
			acc.rates = append(acc.rates, *r.MarginRate)
		}
	}

	summaries := make([]model.ProductSummary, 0, len(order))
	for _, key := range order {
		acc := accs[key]
		summaries = append(summaries, model.ProductSummary{
			Category:           key.category,
			ProductName:        key.product,
			SalesAmount:        acc.amountSum,
			GrossProfit:        acc.profitSum,
			AvgMarginRate:      meanOf(acc.rates),
			MedianMarginRate:   medianOf(acc.rates),
			RealizedMarginRate: realizedRate(acc.profitSum, acc.amountSum),
		})
	}
	return summaries
}

// realizedRate 由汇总口径计算毛利率；分母非正或结果非有限时取 0
func realizedRate(profit, amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	r := profit / amount
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// meanOf 样本均值，空样本取 0
func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

// medianOf 样本中位数，空样本取 0。
// 偶数个样本取中间两值的平均（与源表工具的中位数口径一致，
// gonum 的 Quantile 各种 CumulantKind 均不是该口径）。
func medianOf(vals []float64) float64 {
	n := len(vals)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
