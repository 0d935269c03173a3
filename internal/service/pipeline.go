package service

import (
	"log"

	"gonum.org/v1/plot/vg"

	"github.com/LX-530/systerm/internal/calculator"
	"github.com/LX-530/systerm/internal/config"
	"github.com/LX-530/systerm/internal/exporter"
	"github.com/LX-530/systerm/internal/model"
	"github.com/LX-530/systerm/internal/parser"
)

// Pipeline 分析流水线：加载 → 汇总 → 分层 → 导出。
// 单次批处理，各阶段只消费上一阶段的输出，全部计算完成后才开始写文件。
type Pipeline struct {
	cfg *config.AppConfig
}

// NewPipeline 创建流水线
func NewPipeline(cfg *config.AppConfig) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Options 单次运行参数，零值字段取配置中的默认值
type Options struct {
	InputPath string
	Sheet     string
	OutDir    string
	TopN      int
}

// Result 运行结果
type Result struct {
	OutDir  string
	Files   []string
	Load    *parser.LoadReport
	Metrics model.Metrics
	Health  calculator.HealthStats
}

// Run 执行一次完整分析
func (p *Pipeline) Run(opts Options) (*Result, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheet = p.cfg.Input.DefaultSheet
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = p.cfg.Output.Dir
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = p.cfg.Chart.TopN
	}

	loader := parser.NewLoader(p.cfg.Columns.Mapping(), p.cfg.Clean.SummaryMarkers)
	rows, loadReport, err := loader.LoadFile(opts.InputPath, sheet)
	if err != nil {
		return nil, err
	}
	log.Printf("数据加载完成: 共 %d 行，保留 %d 行（无商品名 %d、汇总行 %d、无分类 %d），数值解析告警 %d，耗时 %v",
		loadReport.TotalRows, loadReport.CleanedRows,
		loadReport.DroppedNoName, loadReport.DroppedSummary, loadReport.DroppedNoCategory,
		loadReport.CoercionWarnings, loadReport.Duration)

	cats := calculator.SummarizeByCategory(rows)
	prods := calculator.SummarizeByProduct(rows)
	metrics := calculator.OverallMetrics(rows)

	th := p.cfg.Thresholds.Thresholds()
	cls := calculator.NewClassifier(th)
	entities := calculator.CategoryEntities(cats)
	tiers := cls.Classify(entities)
	health := cls.HealthStats(entities)
	views := calculator.BuildProductViews(prods, th)

	exp := exporter.New(topN, p.chartStyle())
	files, err := exp.ExportAll(outDir, exporter.ExportData{
		Rows:       rows,
		Categories: cats,
		Products:   prods,
		Metrics:    metrics,
		Tiers:      tiers,
		Health:     health,
		Views:      views,
		Thresholds: th,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		OutDir:  outDir,
		Files:   files,
		Load:    loadReport,
		Metrics: metrics,
		Health:  health,
	}, nil
}

// chartStyle 从配置构造图表样式
func (p *Pipeline) chartStyle() exporter.ChartStyle {
	style := exporter.DefaultChartStyle()
	if p.cfg.Chart.WidthInches > 0 {
		style.Width = vg.Length(p.cfg.Chart.WidthInches) * vg.Inch
	}
	if p.cfg.Chart.HeightInches > 0 {
		style.Height = vg.Length(p.cfg.Chart.HeightInches) * vg.Inch
	}
	if p.cfg.Chart.HistBins > 0 {
		style.HistBins = p.cfg.Chart.HistBins
	}
	return style
}
