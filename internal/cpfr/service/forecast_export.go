package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bullet2theh3ad/bdi-business-portal/internal/cpfr/planning"
	"github.com/xuri/excelize/v2"
)

var forecastExportHeaders = []string{
	"Forecast", "SKU", "SKU Name", "Delivery Week", "Qty", "Shipping",
	"Status", "Overall Signal", "Risk", "Days Left", "Factory Signal Due",
}

// 信号状态对应的单元格填充色
var signalFillColors = map[string]string{
	"red":    "#FECACA",
	"green":  "#BBF7D0",
	"yellow": "#FEF08A",
	"gray":   "#E5E7EB",
}

// Export 导出预测列表为Excel（整体信号着色）
func (s *ForecastService) Export(ctx context.Context, filters map[string]string) (*excelize.File, string, error) {
	items, _, err := s.repo.FindAll(ctx, 1, 10000, filters)
	if err != nil {
		return nil, "", fmt.Errorf("list forecasts: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Forecasts"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range forecastExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	// 信号色样式按需创建，同色复用
	signalStyles := map[string]int{}
	styleFor := func(color string) int {
		if id, ok := signalStyles[color]; ok {
			return id
		}
		fill, ok := signalFillColors[color]
		if !ok {
			fill = signalFillColors["gray"]
		}
		id, _ := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		})
		signalStyles[color] = id
		return id
	}

	today := time.Now()
	for rowIdx, item := range items {
		view := s.buildView(item, today)
		row := rowIdx + 2

		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), view.Code)
		if view.SKU != nil {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), view.SKU.SKU)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), view.SKU.Name)
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), view.DeliveryWeek)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), view.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), view.ShippingMethod)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), view.Status)

		signalCell := fmt.Sprintf("H%d", row)
		f.SetCellValue(sheet, signalCell, string(view.OverallStatus))
		f.SetCellStyle(sheet, signalCell, signalCell, styleFor(view.StatusColor))

		if view.Timeline != nil {
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), string(view.Timeline.RiskLevel))
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), view.Timeline.DaysUntilDelivery)
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), view.Timeline.FactorySignalDate.Format("2006-01-02"))
		}
	}

	filename := fmt.Sprintf("forecasts_%s_%s.xlsx", planning.WeekOf(today), today.Format("20060102"))
	return f, filename, nil
}
