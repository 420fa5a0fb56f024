package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// WriteJSON writes the structured rendering. Key order is fixed by the
// Report struct (maps marshal with sorted keys), so the same report data
// always produces the same bytes.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report JSON: %w", err)
	}
	return nil
}

// RenderMarkdown produces the narrative rendering. Same sections, same
// order as the JSON output, derived from the same data.
func (r *Report) RenderMarkdown() string {
	var b strings.Builder

	b.WriteString("# E-Commerce Data Quality Report\n\n")

	b.WriteString("## Table Row Counts\n")
	tables := make([]string, 0, len(r.TableRowCounts))
	for table := range r.TableRowCounts {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Fprintf(&b, "- **%s**: %d rows\n", table, r.TableRowCounts[table])
	}

	b.WriteString("\n## Integrity Checks\n")
	for _, v := range r.Validations {
		fmt.Fprintf(&b, "- **%s**: %s (%d)\n", v.Check, v.Status, v.Details)
	}

	b.WriteString("\n## Top Products by Revenue\n")
	for _, p := range r.TopProducts {
		fmt.Fprintf(&b, "- %s %s — $%.2f\n", p.ProductID, p.Name, p.Revenue)
	}

	b.WriteString("\n## High-Value Customers\n")
	for _, c := range r.HighValueCustomers {
		fmt.Fprintf(&b, "- %s %s (%s) — $%.2f\n", c.UserID, c.Name, c.Segment, c.Revenue)
	}

	b.WriteString("\n## Payment Anomalies\n")
	if len(r.Anomalies) == 0 {
		b.WriteString("- None detected.\n")
	}
	for _, a := range r.Anomalies {
		fmt.Fprintf(&b, "- Order %s (%s) payment %s amount $%.2f\n", a.OrderID, a.OrderStatus, a.PaymentStatus, a.Amount)
	}

	b.WriteString("\n## Cohort Insights\n")
	for _, c := range r.CohortInsights {
		fmt.Fprintf(&b, "- %s: %d customers, $%.2f revenue\n", c.CohortMonth, c.Customers, c.CohortRevenue)
	}

	return b.String()
}

func (r *Report) WriteMarkdown(path string) error {
	if err := os.WriteFile(path, []byte(r.RenderMarkdown()), 0644); err != nil {
		return fmt.Errorf("failed to write report markdown: %w", err)
	}
	return nil
}
