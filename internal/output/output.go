package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"fixtures/models"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	headerStyle  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	borderStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// NoResults is printed by the query stage when the report is empty.
const NoResults = "No results found."

// ReportHeaders are the report columns in projection order.
var ReportHeaders = []string{
	"user_id", "user_name", "order_id", "order_date",
	"product_name", "quantity", "item_price", "total_amount",
}

// Printer writes styled status lines and report tables to one writer.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Stdout is the printer used by the command binaries.
func Stdout() *Printer {
	return New(os.Stdout)
}

func (p *Printer) Success(format string, args ...any) {
	p.line(successStyle, "✓ ", format, args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.line(warningStyle, "⚠ ", format, args...)
}

func (p *Printer) Info(format string, args ...any) {
	p.line(infoStyle, "ℹ ", format, args...)
}

func (p *Printer) line(style lipgloss.Style, icon, format string, args ...any) {
	fmt.Fprint(p.w, style.Render(icon))
	fmt.Fprintf(p.w, format+"\n", args...)
}

// OrderLines prints the report rows as a table, or the no-results line when
// there are none.
func (p *Printer) OrderLines(lines []models.OrderLine) {
	if len(lines) == 0 {
		fmt.Fprintln(p.w, NoResults)
		return
	}
	fmt.Fprintln(p.w, OrderLinesTable(lines).Render())
}

// OrderLinesTable builds the report table without rendering it.
func OrderLinesTable(lines []models.OrderLine) *table.Table {
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			strconv.FormatInt(l.UserID, 10),
			l.UserName,
			strconv.FormatInt(l.OrderID, 10),
			l.OrderDate,
			l.ProductName,
			strconv.Itoa(l.Quantity),
			formatMoney(l.ItemPrice),
			formatMoney(l.TotalAmount),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(ReportHeaders...).
		Rows(rows...)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
