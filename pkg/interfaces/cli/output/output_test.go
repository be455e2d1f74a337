package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reliefops/donations/pkg/domain/entities"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	request, err := entities.NewRequest("req-12345678", "Family A", "food", 4, entities.High, time.Now())
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	return &Report{
		Inventory: []CategorySummary{{
			Category:  "food",
			Remaining: 6,
			Donated:   10,
			Value:     decimal.NewFromInt(18),
		}},
		Pending: []*entities.Request{request},
		History: []*entities.AllocationRecord{{
			ID:        "alloc-1",
			RequestID: "req-0",
			Category:  "food",
			Quantity:  4,
			Transfers: []entities.Transfer{{DonationID: "don-1", Quantity: 4}},
		}},
	}
}

func TestGenerate_Text(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(sampleReport(t), Config{Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("Failed to generate text report: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"food", "Family A", "18.00", "Allocation History: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestGenerate_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(sampleReport(t), Config{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("Failed to generate JSON report: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got error: %v", err)
	}
	if len(decoded.Inventory) != 1 || decoded.Inventory[0].Remaining != 6 {
		t.Errorf("Expected inventory summary round trip, got %+v", decoded.Inventory)
	}
	if len(decoded.Pending) != 1 || decoded.Pending[0].Requester != "Family A" {
		t.Errorf("Expected pending request round trip, got %+v", decoded.Pending)
	}
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	err := Generate(sampleReport(t), Config{Format: "csv"})
	if err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestGenerate_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	err := Generate(&Report{}, Config{Format: "text", Writer: &buf})
	if err != nil {
		t.Fatalf("Failed to generate empty report: %v", err)
	}
	if !strings.Contains(buf.String(), "(empty)") {
		t.Errorf("Expected empty inventory marker, got:\n%s", buf.String())
	}
}
