package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_EmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Input.DefaultSheet != "销售数据" {
		t.Fatalf("DefaultSheet=%q", cfg.Input.DefaultSheet)
	}
	if cfg.Thresholds.HighMarginRate != 18 {
		t.Fatalf("HighMarginRate=%v", cfg.Thresholds.HighMarginRate)
	}
	if cfg.Chart.TopN != 20 {
		t.Fatalf("TopN=%v", cfg.Chart.TopN)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[input]
default_sheet = "明细"

[thresholds]
high_margin_rate = 20.0

[columns]
category = "二级分类"

[clean]
summary_markers = ["小计"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Input.DefaultSheet != "明细" {
		t.Fatalf("DefaultSheet=%q", cfg.Input.DefaultSheet)
	}
	if cfg.Thresholds.HighMarginRate != 20 {
		t.Fatalf("HighMarginRate=%v", cfg.Thresholds.HighMarginRate)
	}
	if cfg.Columns.Category != "二级分类" {
		t.Fatalf("Category=%q", cfg.Columns.Category)
	}
	if len(cfg.Clean.SummaryMarkers) != 1 || cfg.Clean.SummaryMarkers[0] != "小计" {
		t.Fatalf("SummaryMarkers=%v", cfg.Clean.SummaryMarkers)
	}
	// 未覆盖的字段保持默认
	if cfg.Thresholds.LowMarginRate != 5 {
		t.Fatalf("LowMarginRate=%v, want default 5", cfg.Thresholds.LowMarginRate)
	}
	if cfg.Columns.ProductName != "商品名称" {
		t.Fatalf("ProductName=%q, want default", cfg.Columns.ProductName)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig("/no/such/config.toml"); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestThresholdsRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	th := cfg.Thresholds.Thresholds()
	if th.HighMarginRate != 18 || th.HighRiskAmount != 30000 || th.GoodHealthShare != 0.6 {
		t.Fatalf("unexpected thresholds: %+v", th)
	}
	mapping := cfg.Columns.Mapping()
	if mapping.Category != "一级分类" || mapping.SalesAmount != "求和项:实际金额" {
		t.Fatalf("unexpected mapping: %+v", mapping)
	}
}
