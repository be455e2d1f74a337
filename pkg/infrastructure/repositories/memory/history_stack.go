package memory

import (
	"github.com/reliefops/donations/pkg/domain/entities"
	"github.com/reliefops/donations/pkg/domain/repositories"
)

// HistoryStack provides the in-memory LIFO allocation history
type HistoryStack struct {
	records []*entities.AllocationRecord
}

// NewHistoryStack creates a new empty history stack
func NewHistoryStack() *HistoryStack {
	return &HistoryStack{}
}

// Verify interface compliance
var _ repositories.AllocationHistory = (*HistoryStack)(nil)

// Push appends a record to the top of the stack
func (h *HistoryStack) Push(record *entities.AllocationRecord) {
	h.records = append(h.records, record)
}

// Pop removes and returns the top record
func (h *HistoryStack) Pop() (*entities.AllocationRecord, error) {
	if len(h.records) == 0 {
		return nil, entities.ErrEmptyHistory
	}
	record := h.records[len(h.records)-1]
	h.records = h.records[:len(h.records)-1]
	return record, nil
}

// Peek returns the top record without removing it, or nil
func (h *HistoryStack) Peek() *entities.AllocationRecord {
	if len(h.records) == 0 {
		return nil
	}
	return h.records[len(h.records)-1]
}

// Len returns the number of records on the stack
func (h *HistoryStack) Len() int {
	return len(h.records)
}

// Records returns all records oldest-first
func (h *HistoryStack) Records() []*entities.AllocationRecord {
	records := make([]*entities.AllocationRecord, len(h.records))
	copy(records, h.records)
	return records
}
