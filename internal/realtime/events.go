package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

// Operation is the kind of row change carried on the feed
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
)

// ChangeEvent is one row change published on a scope channel.
// Version is the row's monotonic version counter; consumers use it to
// discard events that arrive out of order.
type ChangeEvent struct {
	Operation Operation       `json:"operation"`
	Table     string          `json:"table"`
	RowID     string          `json:"row_id"`
	Row       json.RawMessage `json:"row"`
	Version   int64           `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewChangeEvent marshals the row and wraps it in an event envelope
func NewChangeEvent(op Operation, table, rowID string, row interface{}, version int64) (*ChangeEvent, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal row for change event: %w", err)
	}
	return &ChangeEvent{
		Operation: op,
		Table:     table,
		RowID:     rowID,
		Row:       data,
		Version:   version,
		Timestamp: time.Now(),
	}, nil
}

// Scope channel name helpers. One logical subscription per scope.

func ApplicationsBrandScope(brandID string) string {
	return fmt.Sprintf("applications:brand:%s", brandID)
}

func ApplicationsExhibitionScope(exhibitionID string) string {
	return fmt.Sprintf("applications:exhibition:%s", exhibitionID)
}

func ConversationScope(conversationID string) string {
	return fmt.Sprintf("conversation:%s", conversationID)
}

func StallInstancesScope(exhibitionID string) string {
	return fmt.Sprintf("stall_instances:exhibition:%s", exhibitionID)
}
