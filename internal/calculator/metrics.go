package calculator

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/LX-530/systerm/internal/model"
)

// OverallMetrics 计算全表整体指标（报告概览用）。
// 毛利率指标换算为百分比口径，只统计有值的行。
func OverallMetrics(rows []model.Row) model.Metrics {
	m := model.Metrics{RowCount: len(rows)}

	var rates []float64
	for _, r := range rows {
		if r.SalesAmount != nil {
			m.TotalAmount += *r.SalesAmount
		}
		if r.GrossProfit != nil {
			m.TotalProfit += *r.GrossProfit
		}
		if r.MarginRate != nil {
			rates = append(rates, *r.MarginRate*100)
		}
	}

	m.RateSamples = len(rates)
	if len(rates) > 0 {
		m.AvgMarginRate = stat.Mean(rates, nil)
		m.MaxMarginRate = floats.Max(rates)
		m.MinMarginRate = floats.Min(rates)
	}
	return m
}
