package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
)

var (
	accent  = lipgloss.Color("#2563EB")
	dim     = lipgloss.Color("#6B7280")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle   = lipgloss.NewStyle().Foreground(dim)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	lowStyle     = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	outStyle     = lipgloss.NewStyle().Foreground(danger).Padding(0, 1)
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)
)

func renderInventory(snap domain.InventorySnapshot, threshold int64) string {
	var b strings.Builder

	summary := strings.Join([]string{
		titleStyle.Render("Inventory"),
		summaryLine("Active products", strconv.Itoa(snap.TotalProducts)),
		summaryLine(fmt.Sprintf("Low stock (<= %d)", threshold), strconv.Itoa(snap.LowStockCount)),
		summaryLine("Out of stock", strconv.Itoa(snap.OutOfStockCount)),
		summaryLine("Value at cost", snap.TotalValue.String()),
	}, "\n")
	b.WriteString(summaryStyle.Render(summary))
	b.WriteString("\n")

	if snap.LowStockCount == 0 && snap.OutOfStockCount == 0 {
		b.WriteString(labelStyle.Render("All active products are above the threshold."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, snap.LowStockCount+snap.OutOfStockCount)
	for _, item := range snap.OutOfStockProducts {
		rows = append(rows, []string{item.SKU, item.Name, "0", "out"})
	}
	for _, item := range snap.LowStockProducts {
		rows = append(rows, []string{item.SKU, item.Name, strconv.FormatInt(item.Stock, 10), "low"})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(labelStyle).
		Headers("SKU", "NAME", "STOCK", "STATE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case rows[row][3] == "out":
				return outStyle
			case rows[row][3] == "low":
				return lowStyle
			}
			return cellStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

func summaryLine(label, value string) string {
	return labelStyle.Render(label+": ") + value
}
