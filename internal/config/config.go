package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/LX-530/systerm/internal/calculator"
	"github.com/LX-530/systerm/internal/parser"
)

// AppConfig 应用配置
type AppConfig struct {
	Input      InputConfig      `toml:"input"`
	Output     OutputConfig     `toml:"output"`
	Clean      CleanConfig      `toml:"clean"`
	Columns    ColumnsConfig    `toml:"columns"`
	Thresholds ThresholdsConfig `toml:"thresholds"`
	Chart      ChartConfig      `toml:"chart"`
}

// InputConfig 输入配置
type InputConfig struct {
	DefaultSheet string `toml:"default_sheet"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Dir string `toml:"dir"`
}

// CleanConfig 数据清洗配置
type CleanConfig struct {
	SummaryMarkers []string `toml:"summary_markers"`
}

// ColumnsConfig 逻辑字段到物理列名的映射配置
type ColumnsConfig struct {
	Category     string `toml:"category"`
	ProductName  string `toml:"product_name"`
	SalesAmount  string `toml:"sales_amount"`
	GrossProfit  string `toml:"gross_profit"`
	MarginRate   string `toml:"margin_rate"`
	Contribution string `toml:"contribution"`
}

// ThresholdsConfig 分层阈值配置（毛利率为百分比，金额为货币单位）
type ThresholdsConfig struct {
	HighMarginRate   float64 `toml:"high_margin_rate"`
	LowMarginRate    float64 `toml:"low_margin_rate"`
	ZeroMarginRate   float64 `toml:"zero_margin_rate"`
	LargeLowRate     float64 `toml:"large_low_rate"`
	PotentialRate    float64 `toml:"potential_rate"`
	HighRiskAmount   float64 `toml:"high_risk_amount"`
	MediumRiskAmount float64 `toml:"medium_risk_amount"`
	HealthyRate      float64 `toml:"healthy_rate"`
	WarningRate      float64 `toml:"warning_rate"`
	GoodHealthShare  float64 `toml:"good_health_share"`
	FairHealthShare  float64 `toml:"fair_health_share"`
}

// ChartConfig 图表配置
type ChartConfig struct {
	TopN         int     `toml:"top_n"`
	WidthInches  float64 `toml:"width_inches"`
	HeightInches float64 `toml:"height_inches"`
	HistBins     int     `toml:"hist_bins"`
}

// DefaultConfig 默认配置，复现源数据表的列名与业务阈值
func DefaultConfig() *AppConfig {
	th := calculator.DefaultThresholds()
	cols := parser.DefaultColumnMapping()
	return &AppConfig{
		Input:  InputConfig{DefaultSheet: "销售数据"},
		Output: OutputConfig{Dir: "outputs"},
		Clean:  CleanConfig{SummaryMarkers: parser.DefaultSummaryMarkers()},
		Columns: ColumnsConfig{
			Category:     cols.Category,
			ProductName:  cols.ProductName,
			SalesAmount:  cols.SalesAmount,
			GrossProfit:  cols.GrossProfit,
			MarginRate:   cols.MarginRate,
			Contribution: cols.Contribution,
		},
		Thresholds: ThresholdsConfig{
			HighMarginRate:   th.HighMarginRate,
			LowMarginRate:    th.LowMarginRate,
			ZeroMarginRate:   th.ZeroMarginRate,
			LargeLowRate:     th.LargeLowRate,
			PotentialRate:    th.PotentialRate,
			HighRiskAmount:   th.HighRiskAmount,
			MediumRiskAmount: th.MediumRiskAmount,
			HealthyRate:      th.HealthyRate,
			WarningRate:      th.WarningRate,
			GoodHealthShare:  th.GoodHealthShare,
			FairHealthShare:  th.FairHealthShare,
		},
		Chart: ChartConfig{
			TopN:         20,
			WidthInches:  10,
			HeightInches: 6,
			HistBins:     40,
		},
	}
}

// LoadConfig 加载配置。path 为空时直接返回默认配置；
// 指定了路径但文件不可读或格式错误时返回错误。
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return cfg, nil
}

// Mapping 转换为解析器的列映射
func (c ColumnsConfig) Mapping() parser.ColumnMapping {
	return parser.ColumnMapping{
		Category:     c.Category,
		ProductName:  c.ProductName,
		SalesAmount:  c.SalesAmount,
		GrossProfit:  c.GrossProfit,
		MarginRate:   c.MarginRate,
		Contribution: c.Contribution,
	}
}

// Thresholds 转换为分层器阈值
func (t ThresholdsConfig) Thresholds() calculator.Thresholds {
	return calculator.Thresholds{
		HighMarginRate:   t.HighMarginRate,
		LowMarginRate:    t.LowMarginRate,
		ZeroMarginRate:   t.ZeroMarginRate,
		LargeLowRate:     t.LargeLowRate,
		PotentialRate:    t.PotentialRate,
		HighRiskAmount:   t.HighRiskAmount,
		MediumRiskAmount: t.MediumRiskAmount,
		HealthyRate:      t.HealthyRate,
		WarningRate:      t.WarningRate,
		GoodHealthShare:  t.GoodHealthShare,
		FairHealthShare:  t.FairHealthShare,
	}
}
