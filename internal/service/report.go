package service

import (
	"bytes"
	"fmt"

	"github.com/cleberrangel/horario-zen-api/internal/model"
	"github.com/xuri/excelize/v2"
)

const (
	tasksSheetName     = "Tareas"
	inventorySheetName = "Inventario"
)

// ReportGenerator gera o relatório Excel semanal do lar
type ReportGenerator struct{}

// NewReportGenerator cria um novo gerador de relatórios
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// Generate gera um arquivo Excel com as tarefas e o inventário
func (g *ReportGenerator) Generate(tasks []model.Task, inventory []model.InventoryItem) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Renomeia a sheet padrão
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, tasksSheetName); err != nil {
		return nil, fmt.Errorf("renomear sheet: %w", err)
	}
	if _, err := f.NewSheet(inventorySheetName); err != nil {
		return nil, fmt.Errorf("criar sheet de inventário: %w", err)
	}

	headerStyle, err := g.headerStyle(f)
	if err != nil {
		return nil, fmt.Errorf("criar estilo: %w", err)
	}

	if err := g.writeTasks(f, headerStyle, tasks); err != nil {
		return nil, fmt.Errorf("escrever tarefas: %w", err)
	}
	if err := g.writeInventory(f, headerStyle, inventory); err != nil {
		return nil, fmt.Errorf("escrever inventário: %w", err)
	}

	// Escreve para buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("escrever buffer: %w", err)
	}

	return buf, nil
}

// headerStyle cria o estilo dos cabeçalhos
func (g *ReportGenerator) headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Size:  11,
			Color: "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"7A9E7E"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

// writeTasks escreve a planilha de tarefas
func (g *ReportGenerator) writeTasks(f *excelize.File, style int, tasks []model.Task) error {
	headers := []string{"Título", "Tipo", "Prioridad", "Fecha", "Completada"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(tasksSheetName, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(tasksSheetName, cell, cell, style); err != nil {
			return err
		}
	}

	for row, t := range tasks {
		values := []interface{}{t.Title, string(t.Type), string(t.Priority), t.DueDate, t.Completed}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(tasksSheetName, cell, v); err != nil {
				return err
			}
		}
	}

	return g.autoFitColumns(f, tasksSheetName, len(headers))
}

// writeInventory escreve a planilha de inventário
func (g *ReportGenerator) writeInventory(f *excelize.File, style int, inventory []model.InventoryItem) error {
	headers := []string{"Artículo", "Cantidad", "Consumido", "Actualizado"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(inventorySheetName, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(inventorySheetName, cell, cell, style); err != nil {
			return err
		}
	}

	for row, item := range inventory {
		values := []interface{}{item.Name, item.Quantity, item.Consumed, item.LastUpdated.Format("2006-01-02 15:04")}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(inventorySheetName, cell, v); err != nil {
				return err
			}
		}
	}

	return g.autoFitColumns(f, inventorySheetName, len(headers))
}

// autoFitColumns ajusta a largura das colunas
func (g *ReportGenerator) autoFitColumns(f *excelize.File, sheet string, cols int) error {
	for i := 1; i <= cols; i++ {
		col, _ := excelize.ColumnNumberToName(i)
		if err := f.SetColWidth(sheet, col, col, 22); err != nil {
			return err
		}
	}
	return nil
}
