package amqp

import (
	"encoding/json"
	"time"
)

// StatementJobMessage asks the worker to fetch and ingest one statement.
// It carries only the source reference and commit policy; the worker pulls
// the actual statement text itself.
type StatementJobMessage struct {
	Source      string    `json:"source"`
	Policy      string    `json:"policy"`
	RequestedAt time.Time `json:"requested_at"`
}

func NewStatementJobMessage(source, policy string) *StatementJobMessage {
	return &StatementJobMessage{
		Source:      source,
		Policy:      policy,
		RequestedAt: time.Now(),
	}
}

func (m *StatementJobMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func StatementJobMessageFromJSON(data []byte) (*StatementJobMessage, error) {
	var msg StatementJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BatchIngestedMessage announces a committed batch on the events queue
// for downstream consumers.
type BatchIngestedMessage struct {
	BatchID    string    `json:"batch_id"`
	Count      int       `json:"count"`
	IngestedAt time.Time `json:"ingested_at"`
}

func NewBatchIngestedMessage(batchID string, count int) *BatchIngestedMessage {
	return &BatchIngestedMessage{
		BatchID:    batchID,
		Count:      count,
		IngestedAt: time.Now(),
	}
}

func (m *BatchIngestedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BatchIngestedMessageFromJSON(data []byte) (*BatchIngestedMessage, error) {
	var msg BatchIngestedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
