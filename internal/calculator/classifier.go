package calculator

import (
	"sort"

	"github.com/LX-530/systerm/internal/model"
)

// Entity 参与分层的实体：品类或单品的统一视图
type Entity struct {
	Label              string  // 品类名或 "品类/商品" 组合名
	SalesAmount        float64
	GrossProfit        float64
	RealizedMarginRate float64 // 小数口径
}

// CategoryEntities 品类汇总转分层视图
func CategoryEntities(summaries []model.CategorySummary) []Entity {
	entities := make([]Entity, 0, len(summaries))
	for _, s := range summaries {
		entities = append(entities, Entity{
			Label:              s.Category,
			SalesAmount:        s.SalesAmount,
			GrossProfit:        s.GrossProfit,
			RealizedMarginRate: s.RealizedMarginRate,
		})
	}
	return entities
}

// ProductEntities 单品汇总转分层视图
func ProductEntities(summaries []model.ProductSummary) []Entity {
	entities := make([]Entity, 0, len(summaries))
	for _, s := range summaries {
		entities = append(entities, Entity{
			Label:              s.Category + "/" + s.ProductName,
			SalesAmount:        s.SalesAmount,
			GrossProfit:        s.GrossProfit,
			RealizedMarginRate: s.RealizedMarginRate,
		})
	}
	return entities
}

// Thresholds 分层阈值。毛利率阈值为百分比口径，金额阈值为输入数据的货币单位。
type Thresholds struct {
	HighMarginRate    float64 // 超高毛利率下限（含）
	LowMarginRate     float64 // 超低毛利率上限（含）
	ZeroMarginRate    float64 // 零负毛利上限（含）
	LargeLowRate      float64 // "大而不赚"的毛利率上限（不含）
	PotentialRate     float64 // 潜力品类的毛利率下限（含）
	HighRiskAmount    float64 // 低毛利实体金额超过此值为高风险
	MediumRiskAmount  float64 // 低毛利实体金额超过此值为中风险
	HealthyRate       float64 // 健康带下限（含）
	WarningRate       float64 // 警戒带下限（含），上限为 HealthyRate
	GoodHealthShare   float64 // 健康占比达到此值评级"良好"
	FairHealthShare   float64 // 健康占比达到此值评级"一般"
}

// DefaultThresholds 源业务的阈值基线
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighMarginRate:   18,
		LowMarginRate:    5,
		ZeroMarginRate:   2,
		LargeLowRate:     10,
		PotentialRate:    15,
		HighRiskAmount:   30000,
		MediumRiskAmount: 10000,
		HealthyRate:      10,
		WarningRate:      5,
		GoodHealthShare:  0.6,
		FairHealthShare:  0.4,
	}
}

// RiskLevel 低毛利实体的金额风险等级
type RiskLevel string

const (
	RiskHigh   RiskLevel = "高风险"
	RiskMedium RiskLevel = "中风险"
	RiskLow    RiskLevel = "低风险"
)

// LowMarginEntity 低毛利实体及其风险等级
type LowMarginEntity struct {
	Entity
	Risk RiskLevel
}

// TierResult 分层结果。各层相互独立，同一实体可同时命中多层。
type TierResult struct {
	HighMargin        []Entity          // 毛利率降序
	LowMargin         []LowMarginEntity // 金额降序
	ZeroMargin        []Entity          // 金额降序
	LargeUnprofitable []Entity          // 金额降序
	Potential         []Entity          // 毛利率降序
	AmountMedian      float64           // 本次分层使用的金额中位数
}

// HealthStats 健康度统计：全表毛利率分布的三档计数与占比
type HealthStats struct {
	Healthy      int
	Warning      int
	Danger       int
	Total        int
	HealthyShare float64
	WarningShare float64
	DangerShare  float64
	Grade        string // 良好/一般/较差；无数据时为"暂无数据"
}

// Classifier 阈值分层器
type Classifier struct {
	th Thresholds
}

// NewClassifier 创建分层器
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{th: th}
}

// Classify 对实体集合分层。
// 金额非正的实体不参与分层，也不参与金额中位数的计算——
// 口径毛利率以金额为分母，分母必须为正。
// 中位数边界约定：金额 ≥ 中位数为"大"，< 中位数为"小"，
// 恰好等于中位数的实体只会落在"大"的一侧。
func (c *Classifier) Classify(entities []Entity) TierResult {
	valid := make([]Entity, 0, len(entities))
	amounts := make([]float64, 0, len(entities))
	for _, e := range entities {
		if e.SalesAmount <= 0 {
			continue
		}
		valid = append(valid, e)
		amounts = append(amounts, e.SalesAmount)
	}

	result := TierResult{AmountMedian: medianOf(amounts)}

	for _, e := range valid {
		rate := e.RealizedMarginRate * 100

		if rate >= c.th.HighMarginRate {
			result.HighMargin = append(result.HighMargin, e)
		}
		if rate <= c.th.LowMarginRate {
			result.LowMargin = append(result.LowMargin, LowMarginEntity{
				Entity: e,
				Risk:   c.riskLevel(e.SalesAmount),
			})
		}
		if rate <= c.th.ZeroMarginRate {
			result.ZeroMargin = append(result.ZeroMargin, e)
		}
		if rate < c.th.LargeLowRate && e.SalesAmount >= result.AmountMedian {
			result.LargeUnprofitable = append(result.LargeUnprofitable, e)
		}
		if rate >= c.th.PotentialRate && e.SalesAmount < result.AmountMedian {
			result.Potential = append(result.Potential, e)
		}
	}

	sortByRateDesc(result.HighMargin)
	sortByRateDesc(result.Potential)
	sortByAmountDesc(result.ZeroMargin)
	sortByAmountDesc(result.LargeUnprofitable)
	sort.SliceStable(result.LowMargin, func(i, j int) bool {
		return result.LowMargin[i].SalesAmount > result.LowMargin[j].SalesAmount
	})

	return result
}

// riskLevel 低毛利实体按金额分档
func (c *Classifier) riskLevel(amount float64) RiskLevel {
	switch {
	case amount > c.th.HighRiskAmount:
		return RiskHigh
	case amount > c.th.MediumRiskAmount:
		return RiskMedium
	default:
		return RiskLow
	}
}

// HealthStats 全表健康度统计。金额非正的实体同样不计入。
func (c *Classifier) HealthStats(entities []Entity) HealthStats {
	var hs HealthStats
	for _, e := range entities {
		if e.SalesAmount <= 0 {
			continue
		}
		hs.Total++
		rate := e.RealizedMarginRate * 100
		switch {
		case rate >= c.th.HealthyRate:
			hs.Healthy++
		case rate >= c.th.WarningRate:
			hs.Warning++
		default:
			hs.Danger++
		}
	}

	if hs.Total == 0 {
		hs.Grade = "暂无数据"
		return hs
	}

	total := float64(hs.Total)
	hs.HealthyShare = float64(hs.Healthy) / total
	hs.WarningShare = float64(hs.Warning) / total
	hs.DangerShare = float64(hs.Danger) / total

	switch {
	case hs.HealthyShare >= c.th.GoodHealthShare:
		hs.Grade = "良好"
	case hs.HealthyShare >= c.th.FairHealthShare:
		hs.Grade = "一般"
	default:
		hs.Grade = "较差"
	}
	return hs
}

// ProductViews 导出用的单品过滤视图
type ProductViews struct {
	High []model.ProductSummary // 口径毛利率 ≥ 高毛利阈值，毛利率降序
	Low  []model.ProductSummary // 口径毛利率 ≤ 低毛利阈值，金额降序
	Zero []model.ProductSummary // 口径毛利率 ≤ 0，金额降序
}

// BuildProductViews 过滤出三类单品子集。
// 零毛利视图的阈值固定为 0（有无毛利），与分层用的零负毛利阈值（2%）口径不同。
func BuildProductViews(prods []model.ProductSummary, th Thresholds) ProductViews {
	var v ProductViews
	for _, p := range prods {
		rate := p.RealizedMarginRate * 100
		if rate >= th.HighMarginRate {
			v.High = append(v.High, p)
		}
		if rate <= th.LowMarginRate {
			v.Low = append(v.Low, p)
		}
		if rate <= 0 {
			v.Zero = append(v.Zero, p)
		}
	}
	sort.SliceStable(v.High, func(i, j int) bool { return v.High[i].RealizedMarginRate > v.High[j].RealizedMarginRate })
	sort.SliceStable(v.Low, func(i, j int) bool { return v.Low[i].SalesAmount > v.Low[j].SalesAmount })
	sort.SliceStable(v.Zero, func(i, j int) bool { return v.Zero[i].SalesAmount > v.Zero[j].SalesAmount })
	return v
}

func sortByRateDesc(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].RealizedMarginRate > entities[j].RealizedMarginRate
	})
}

func sortByAmountDesc(entities []Entity) {
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].SalesAmount > entities[j].SalesAmount
	})
}
