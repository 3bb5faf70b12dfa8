// Command report prints the dashboard KPIs and group totals for one period
// and can write the filtered rows to a CSV or XLSX file.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/presentation"
	"sales-dashboard/internal/services"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	subtle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	accent      = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	panel       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
)

type options struct {
	file     string
	period   string
	layouts  string
	locale   string
	currency string
	out      string
	list     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.file, "file", "supermarket_sales.csv", "path to the sales CSV")
	flag.StringVar(&opts.period, "period", "", "period to report as YYYY-MM (default: earliest)")
	flag.StringVar(&opts.layouts, "date-layouts", strings.Join(services.DefaultDateLayouts, ","), "comma separated Go layouts for the Date column")
	flag.StringVar(&opts.locale, "locale", presentation.DefaultLocale, "locale for number formatting")
	flag.StringVar(&opts.currency, "currency", presentation.DefaultCurrency, "currency symbol")
	flag.StringVar(&opts.out, "out", "", "write the filtered rows to this .csv or .xlsx file")
	flag.BoolVar(&opts.list, "list", false, "list available periods and exit")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, w io.Writer) error {
	ds, err := services.LoadCSV(ctx, opts.file, services.LoadOptions{DateLayouts: splitList(opts.layouts)})
	if err != nil {
		return err
	}

	if opts.list {
		for _, p := range ds.Periods() {
			fmt.Fprintln(w, p)
		}
		return nil
	}

	period := opts.period
	if period == "" {
		period = services.DefaultPeriod(ds)
	} else if !services.ValidPeriod(period) {
		return fmt.Errorf("invalid period %q, expected YYYY-MM", period)
	}

	formatter, err := presentation.NewFormatter(opts.locale, opts.currency)
	if err != nil {
		return err
	}

	filtered := services.Filter(ds, period)
	report := presentation.Build(ds, filtered, formatter)

	if opts.out != "" {
		if err := writeExport(opts.out, filtered); err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, render(ds, filtered, report, formatter, opts.out)+"\n")
	return err
}

func render(ds *models.Dataset, filtered models.FilteredDataset, report presentation.Report, f *presentation.Formatter, out string) string {
	title := headerStyle.Render("Sales Report")
	meta := subtle.Render(fmt.Sprintf("%s · period %s · %d of %d rows", ds.Source, displayPeriod(report.Period), filtered.Len(), ds.Len()))

	cards := make([]string, len(report.Metrics))
	for i, m := range report.Metrics {
		cards[i] = panel.Render(subtle.Render(m.Label) + "\n" + accent.Render(m.Display()))
	}

	sections := []string{
		title,
		meta,
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
		groupTable("Branch", services.RevenueByCity(filtered.Records), f),
		groupTable("Product line", services.RevenueByProductLine(filtered.Records), f),
		groupTable("Payment", services.RevenueByPayment(filtered.Records), f),
	}
	if out != "" {
		sections = append(sections, subtle.Render("Exported to "+out))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func groupTable(key string, totals []models.KeyTotal, f *presentation.Formatter) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(key, "Revenue ("+f.CurrencySymbol()+")")
	for _, kt := range totals {
		t.Row(kt.Key, f.Currency(kt.Total))
	}
	return t.Render()
}

type encoder func(io.Writer, models.FilteredDataset) error

func writeExport(path string, filtered models.FilteredDataset) error {
	var encode encoder
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		encode = export.WriteCSV
	case ".xlsx":
		encode = export.WriteXLSX
	default:
		return fmt.Errorf("unsupported export extension %q, use .csv or .xlsx", filepath.Ext(path))
	}
	return writeFile(path, filtered, encode)
}

// writeFile encodes in memory first; a failed encode leaves path untouched.
func writeFile(path string, filtered models.FilteredDataset, encode encoder) error {
	var buf bytes.Buffer
	if err := encode(&buf, filtered); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func displayPeriod(p string) string {
	if p == "" {
		return "none"
	}
	return p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
