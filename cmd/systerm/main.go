package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LX-530/systerm/internal/config"
	"github.com/LX-530/systerm/internal/service"
)

var (
	input   = flag.String("input", "", "Excel输入文件路径 (必填)")
	sheet   = flag.String("sheet", "", "工作表名称 (默认取配置)")
	out     = flag.String("out", "", "输出目录 (默认取配置)")
	topN    = flag.Int("topN", 0, "图表展示的Top N实体数 (默认取配置)")
	cfgPath = flag.String("config", "", "配置文件路径 (TOML)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  商品价格走向与毛利率分析工具")
	fmt.Println("==========================================")

	if *input == "" {
		fmt.Fprintln(os.Stderr, "错误: 必须通过 -input 指定输入文件")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}

	pipeline := service.NewPipeline(cfg)
	result, err := pipeline.Run(service.Options{
		InputPath: *input,
		Sheet:     *sheet,
		OutDir:    *out,
		TopN:      *topN,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "错误:", err)
		os.Exit(1)
	}

	absOut, err := filepath.Abs(result.OutDir)
	if err != nil {
		absOut = result.OutDir
	}

	fmt.Println("\n分析完成。输出目录:", absOut)
	fmt.Println("生成文件:")
	for _, f := range result.Files {
		fmt.Println("  -", filepath.Base(f))
	}
}
