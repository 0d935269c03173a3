package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/LX-530/systerm/internal/calculator"
	"github.com/LX-530/systerm/internal/model"
	"github.com/LX-530/systerm/internal/util"
)

// ReportData 报告渲染输入
type ReportData struct {
	GeneratedAt   time.Time
	RunID         string
	Metrics       model.Metrics
	CategoryCount int
	Tiers         calculator.TierResult
	Health        calculator.HealthStats
	Thresholds    calculator.Thresholds
}

// 每节最多罗列的实体条数，避免长尾品类把报告撑爆
const maxListedEntities = 10

// BuildReport 渲染Markdown分析报告。
// 报告是纯输出端：任何层为空都渲染"暂无"说明，不影响管线状态。
func BuildReport(d ReportData) string {
	var b strings.Builder
	th := d.Thresholds
	m := d.Metrics

	fmt.Fprintf(&b, "# 商品价格走向与毛利率数据分析报告\n\n")
	fmt.Fprintf(&b, "报告生成时间：%s\n\n", d.GeneratedAt.Format("2006年01月02日"))
	fmt.Fprintf(&b, "报告编号：%s\n\n", d.RunID)

	// 一、整体概览
	b.WriteString("## 一、整体数据概览\n\n")
	fmt.Fprintf(&b, "- 商品记录数：%d 条\n", m.RowCount)
	fmt.Fprintf(&b, "- 品类总数：%d 个\n", d.CategoryCount)
	fmt.Fprintf(&b, "- 总销售金额：%s 元\n", util.FormatThousands(m.TotalAmount))
	fmt.Fprintf(&b, "- 总毛利额：%s 元\n", util.FormatThousands(m.TotalProfit))
	if m.RateSamples > 0 {
		fmt.Fprintf(&b, "- 平均毛利率：%.2f%%\n", m.AvgMarginRate)
		fmt.Fprintf(&b, "- 最高毛利率：%.2f%%\n", m.MaxMarginRate)
		fmt.Fprintf(&b, "- 最低毛利率：%.2f%%\n", m.MinMarginRate)
	} else {
		b.WriteString("- 毛利率列无有效数据\n")
	}
	b.WriteString("\n")

	// 注：均值毛利率与口径毛利率并存。均值对每个SKU等权；口径毛利率
	// （毛利合计/金额合计）按销售额加权，结构失衡时两者会明显背离，
	// 阈值分层一律以口径毛利率为准。
	b.WriteString("> 说明：报告中的品类毛利率为口径毛利率（毛利合计/金额合计），" +
		"与逐行平均的毛利率在商品结构不均衡时会显著不同，阈值判断以口径毛利率为准。\n\n")

	// 二、极端情况
	b.WriteString("## 二、毛利率/毛利的极端情况\n\n")

	fmt.Fprintf(&b, "### 2.1 超高毛利率品类（≥%.0f%%）\n\n", th.HighMarginRate)
	if len(d.Tiers.HighMargin) == 0 {
		b.WriteString("暂无超高毛利率品类\n\n")
	} else {
		for i, e := range listed(d.Tiers.HighMargin) {
			fmt.Fprintf(&b, "（%d）%s：\n", i+1, e.Label)
			fmt.Fprintf(&b, "   - 毛利率：%s\n", util.FormatPercent(e.RealizedMarginRate))
			fmt.Fprintf(&b, "   - 销售金额：%s 元\n", util.FormatThousands(e.SalesAmount))
			fmt.Fprintf(&b, "   - 毛利额：%s 元\n", util.FormatThousands(e.GrossProfit))
			if e.SalesAmount < th.MediumRiskAmount {
				b.WriteString("   - 分析：高毛利率品类，金额较小，可维持现状\n")
			} else {
				b.WriteString("   - 分析：高毛利率品类，重点关注，可加大推广力度\n")
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "### 2.2 超低毛利率品类（≤%.0f%%）\n\n", th.LowMarginRate)
	b.WriteString("**风险提示：低毛利且金额高的风险品类**\n\n")
	if len(d.Tiers.LowMargin) == 0 {
		b.WriteString("暂无超低毛利率品类\n\n")
	} else {
		for i, e := range listedLow(d.Tiers.LowMargin) {
			fmt.Fprintf(&b, "（%d）%s：\n", i+1, e.Label)
			fmt.Fprintf(&b, "   - 毛利率：%s（%s）\n", util.FormatPercent(e.RealizedMarginRate), e.Risk)
			fmt.Fprintf(&b, "   - 销售金额：%s 元\n", util.FormatThousands(e.SalesAmount))
			fmt.Fprintf(&b, "   - 毛利额：%s 元\n", util.FormatThousands(e.GrossProfit))
			if e.SalesAmount > th.MediumRiskAmount {
				b.WriteString("   - 建议：优化供应商渠道，寻找更优资源；若无法改善，建议缩减SKU\n")
			} else {
				b.WriteString("   - 建议：考虑逐步下架或替换\n")
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "### 2.3 零毛利/负毛利品类（≤%.0f%%）\n\n", th.ZeroMarginRate)
	if len(d.Tiers.ZeroMargin) == 0 {
		b.WriteString("暂无零负毛利品类（良好）\n\n")
	} else {
		b.WriteString("**严重警告：基本无利润甚至隐性亏损**\n\n")
		for i, e := range listed(d.Tiers.ZeroMargin) {
			fmt.Fprintf(&b, "（%d）%s：\n", i+1, e.Label)
			fmt.Fprintf(&b, "   - 毛利率：%s\n", util.FormatPercent(e.RealizedMarginRate))
			fmt.Fprintf(&b, "   - 销售金额：%s 元\n", util.FormatThousands(e.SalesAmount))
			b.WriteString("   - 措施：核查成本价和售价录入；建议下架或更换高利润替代品\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("### 2.4 品类结构异常\n\n")
	b.WriteString("#### （1）高金额但低毛利的\"拖后腿\"品类\n\n")
	if len(d.Tiers.LargeUnprofitable) == 0 {
		b.WriteString("暂无此类问题（良好）\n\n")
	} else {
		var total float64
		for _, e := range d.Tiers.LargeUnprofitable {
			total += e.SalesAmount
		}
		fmt.Fprintf(&b, "共识别 %d 个\"大而不赚\"品类，总金额 %s 元。典型品类：\n\n",
			len(d.Tiers.LargeUnprofitable), util.FormatThousands(total))
		for i, e := range listed(d.Tiers.LargeUnprofitable) {
			fmt.Fprintf(&b, "%d. %s（毛利率 %s，金额 %s 元）：优化供应商渠道、重新议价或随行就市调价\n",
				i+1, e.Label, util.FormatPercent(e.RealizedMarginRate), util.FormatThousands(e.SalesAmount))
		}
		b.WriteString("\n")
	}

	b.WriteString("#### （2）低金额但高毛利的\"潜力品类\"\n\n")
	if len(d.Tiers.Potential) == 0 {
		b.WriteString("暂无高潜力品类需要重点关注\n\n")
	} else {
		fmt.Fprintf(&b, "共识别 %d 个潜力品类。典型品类：\n\n", len(d.Tiers.Potential))
		for i, e := range listed(d.Tiers.Potential) {
			fmt.Fprintf(&b, "%d. %s（毛利率 %s，金额 %s 元）：扩大客户基数、提升销量，用高毛利品类带动整体利润\n",
				i+1, e.Label, util.FormatPercent(e.RealizedMarginRate), util.FormatThousands(e.SalesAmount))
		}
		b.WriteString("\n")
	}

	// 三、健康度
	b.WriteString("## 三、品类结构健康度评估\n\n")
	h := d.Health
	if h.Total == 0 {
		b.WriteString("暂无可评估的品类数据\n\n")
	} else {
		fmt.Fprintf(&b, "- 健康品类（毛利率≥%.0f%%）：%d 个，占比 %.1f%%\n",
			th.HealthyRate, h.Healthy, h.HealthyShare*100)
		fmt.Fprintf(&b, "- 警戒品类（%.0f%%≤毛利率<%.0f%%）：%d 个，占比 %.1f%%\n",
			th.WarningRate, th.HealthyRate, h.Warning, h.WarningShare*100)
		fmt.Fprintf(&b, "- 危险品类（毛利率<%.0f%%）：%d 个，占比 %.1f%%\n",
			th.WarningRate, h.Danger, h.DangerShare*100)
		fmt.Fprintf(&b, "\n**健康度评级：%s**\n\n", h.Grade)
	}

	// 四、定价建议
	b.WriteString("## 四、商品定价建议\n\n")
	if m.RateSamples == 0 {
		b.WriteString("毛利率数据不足，无法给出定价建议\n\n")
	} else {
		fmt.Fprintf(&b, "当前平均毛利率为 %.2f%%。建议：\n\n", m.AvgMarginRate)
		switch {
		case m.AvgMarginRate < 10:
			b.WriteString("- **紧急调整**：整体毛利率低于目标值（10%），需要立即采取行动\n" +
				"  - 对低毛利品类重新议价或调整售价\n" +
				"  - 加大高毛利品类的销售占比\n" +
				"  - 下架零负毛利商品\n\n")
		case m.AvgMarginRate < 12:
			b.WriteString("- **优化提升**：接近目标但仍有提升空间\n" +
				"  - 持续优化供应链成本\n" +
				"  - 逐步调整产品结构\n" +
				"  - 重点推广高毛利商品\n\n")
		default:
			b.WriteString("- **保持优化**：整体表现良好，继续保持并优化\n" +
				"  - 维护高毛利品类的竞争力\n" +
				"  - 持续监控低毛利品类\n" +
				"  - 挖掘新的高利润增长点\n\n")
		}
	}

	// 五、指标监控
	b.WriteString("## 五、关键指标监控\n\n")
	if m.RateSamples > 0 {
		target := m.AvgMarginRate + 1
		if target < 10 {
			target = 10
		}
		fmt.Fprintf(&b, "- **整体毛利率目标**：%.1f%%（当前：%.2f%%）\n", target, m.AvgMarginRate)
	}
	b.WriteString("- **健康品类占比目标**：≥60%\n")
	fmt.Fprintf(&b, "- **危险品类（<%.0f%%）数量**：逐步降至0个\n\n", th.WarningRate)

	// 六、总结
	b.WriteString("## 六、核心问题总结\n\n")
	var issues []string
	if n := len(d.Tiers.ZeroMargin); n > 0 {
		issues = append(issues, fmt.Sprintf("存在%d个零负毛利品类，需立即处理", n))
	}
	if n := len(d.Tiers.LowMargin); n > 0 {
		issues = append(issues, fmt.Sprintf("%d个超低毛利率品类拖累整体表现", n))
	}
	if n := len(d.Tiers.LargeUnprofitable); n > 0 {
		issues = append(issues, fmt.Sprintf("%d个主力品类利润空间不足", n))
	}
	if len(issues) == 0 {
		b.WriteString("整体运营健康，继续保持优化\n")
	} else {
		for i, issue := range issues {
			fmt.Fprintf(&b, "%d. %s\n", i+1, issue)
		}
	}

	b.WriteString("\n---\n\n*本报告由分析管线自动生成，明细数据请参见同目录的汇总表与图表文件。*\n")
	return b.String()
}

// listed 截断到报告罗列上限
func listed(entities []calculator.Entity) []calculator.Entity {
	if len(entities) > maxListedEntities {
		return entities[:maxListedEntities]
	}
	return entities
}

func listedLow(entities []calculator.LowMarginEntity) []calculator.LowMarginEntity {
	if len(entities) > maxListedEntities {
		return entities[:maxListedEntities]
	}
	return entities
}
