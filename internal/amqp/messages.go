package amqp

import (
	"encoding/json"
	"time"
)

const (
	KindUpsert = "upsert"
	KindDelete = "delete"
)

// ActivitySnapshot carries the ledger-relevant fields of a deleted record.
// Deletes must travel with their data because the row is gone by the time
// the worker sees the message.
type ActivitySnapshot struct {
	Date          string `json:"date"`
	Description   string `json:"description"`
	AmountCents   int64  `json:"amount_cents"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
}

// SyncMessage is the single message shape on the sync queue. Upserts carry
// only id and version, the worker fetches the record itself; deletes carry a
// snapshot.
type SyncMessage struct {
	Kind      string            `json:"kind"`
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Version   int64             `json:"version,omitempty"`
	Snapshot  *ActivitySnapshot `json:"snapshot,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func NewActivitySyncMessage(id, userID, version int64) *SyncMessage {
	return &SyncMessage{
		Kind:      KindUpsert,
		ID:        id,
		UserID:    userID,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func NewActivityDeleteMessage(id, userID int64, snapshot ActivitySnapshot) *SyncMessage {
	return &SyncMessage{
		Kind:      KindDelete,
		ID:        id,
		UserID:    userID,
		Snapshot:  &snapshot,
		Timestamp: time.Now(),
	}
}

func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
