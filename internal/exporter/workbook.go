package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/LX-530/systerm/internal/model"
)

const (
	categorySheet = "品类汇总"
	productSheet  = "单品汇总"
)

// WriteSummaryWorkbook 导出汇总Excel工作簿：品类、单品各一个工作表
func WriteSummaryWorkbook(path string, cats []model.CategorySummary, prods []model.ProductSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", categorySheet); err != nil {
		return fmt.Errorf("创建品类工作表失败: %w", err)
	}
	if _, err := f.NewSheet(productSheet); err != nil {
		return fmt.Errorf("创建单品工作表失败: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("创建表头样式失败: %w", err)
	}

	catHeader := []interface{}{"一级分类", "金额合计", "毛利合计", "毛利率均值", "毛利率中位数", "SKU数", "口径毛利率"}
	if err := f.SetSheetRow(categorySheet, "A1", &catHeader); err != nil {
		return fmt.Errorf("写入品类表头失败: %w", err)
	}
	for i, s := range cats {
		row := []interface{}{
			s.Category, s.SalesAmount, s.GrossProfit,
			s.AvgMarginRate, s.MedianMarginRate, s.SKUCount, s.RealizedMarginRate,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(categorySheet, cell, &row); err != nil {
			return fmt.Errorf("写入品类数据失败: %w", err)
		}
	}
	if err := f.SetCellStyle(categorySheet, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("应用品类表头样式失败: %w", err)
	}

	prodHeader := []interface{}{"一级分类", "商品名称", "金额合计", "毛利合计", "毛利率均值", "毛利率中位数", "口径毛利率"}
	if err := f.SetSheetRow(productSheet, "A1", &prodHeader); err != nil {
		return fmt.Errorf("写入单品表头失败: %w", err)
	}
	for i, s := range prods {
		row := []interface{}{
			s.Category, s.ProductName, s.SalesAmount, s.GrossProfit,
			s.AvgMarginRate, s.MedianMarginRate, s.RealizedMarginRate,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(productSheet, cell, &row); err != nil {
			return fmt.Errorf("写入单品数据失败: %w", err)
		}
	}
	if err := f.SetCellStyle(productSheet, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("应用单品表头样式失败: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存汇总工作簿失败: %w", err)
	}
	return nil
}
