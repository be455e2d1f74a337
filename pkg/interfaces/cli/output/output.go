package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/reliefops/donations/pkg/domain/entities"
)

// CategorySummary aggregates one category's inventory for reporting
type CategorySummary struct {
	Category  entities.Category    `json:"category"`
	Remaining entities.Quantity    `json:"remaining"`
	Donated   entities.Quantity    `json:"donated"`
	Value     decimal.Decimal      `json:"value"`
	Donations []*entities.Donation `json:"donations,omitempty"`
}

// Report is the full renderable state of the donation system
type Report struct {
	Inventory []CategorySummary            `json:"inventory"`
	Pending   []*entities.Request          `json:"pending_requests"`
	Fulfilled []*entities.Request          `json:"fulfilled_requests"`
	History   []*entities.AllocationRecord `json:"allocation_history"`
}

// Config holds configuration for report generation
type Config struct {
	Format  string
	Verbose bool
	Writer  io.Writer
}

// Generate renders the report in the specified format
func Generate(report *Report, config Config) error {
	w := config.Writer
	if w == nil {
		w = os.Stdout
	}
	switch config.Format {
	case "text":
		return generateText(report, w, config.Verbose)
	case "json":
		return generateJSON(report, w)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func generateText(report *Report, w io.Writer, verbose bool) error {
	fmt.Fprintf(w, "📦 Inventory by Category\n")
	fmt.Fprintf(w, "========================\n")
	if len(report.Inventory) == 0 {
		fmt.Fprintf(w, "(empty)\n")
	} else {
		fmt.Fprintf(w, "%-15s %-10s %-10s %-12s\n", "Category", "Remaining", "Donated", "Est. Value")
		fmt.Fprintf(w, "%-15s %-10s %-10s %-12s\n", "---------------", "----------", "----------", "------------")
		for _, summary := range report.Inventory {
			fmt.Fprintf(w, "%-15s %-10d %-10d %-12s\n",
				summary.Category, summary.Remaining, summary.Donated, summary.Value.StringFixed(2))
			if verbose {
				for _, donation := range summary.Donations {
					fmt.Fprintf(w, "  - %s (id:%s) remaining %d of %d, received %s\n",
						donation.Name, donation.ID, donation.Remaining, donation.Quantity,
						donation.ReceivedAt.Format("2006-01-02"))
				}
			}
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "📋 Pending Requests\n")
	fmt.Fprintf(w, "===================\n")
	if len(report.Pending) == 0 {
		fmt.Fprintf(w, "(none)\n")
	} else {
		fmt.Fprintf(w, "%-10s %-20s %-15s %-8s %-10s %-10s\n",
			"ID", "Requester", "Category", "Needed", "Fulfilled", "Priority")
		fmt.Fprintf(w, "%-10s %-20s %-15s %-8s %-10s %-10s\n",
			"----------", "--------------------", "---------------", "--------", "----------", "----------")
		for _, request := range report.Pending {
			fmt.Fprintf(w, "%-10s %-20s %-15s %-8d %-10d %-10s\n",
				shortID(request.ID), request.Requester, request.Category,
				request.Needed, request.Fulfilled, request.Priority)
		}
	}
	fmt.Fprintln(w)

	if len(report.Fulfilled) > 0 {
		fmt.Fprintf(w, "✅ Fulfilled Requests: %d\n", len(report.Fulfilled))
		if verbose {
			for _, request := range report.Fulfilled {
				fmt.Fprintf(w, "  - %s: %dx %q for %s\n",
					shortID(request.ID), request.Needed, request.Category, request.Requester)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "🗂  Allocation History: %d record(s)\n", len(report.History))
	if verbose {
		for _, record := range report.History {
			fmt.Fprintf(w, "  - %s: %d units of %q -> request %s (%d transfer(s))\n",
				shortID(record.ID), record.Quantity, record.Category,
				shortID(record.RequestID), len(record.Transfers))
		}
	}
	return nil
}

func generateJSON(report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
