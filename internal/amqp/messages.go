package amqp

import (
	"encoding/json"
	"time"
)

// BackupMessage asks the worker to copy one transaction to the backup
// target. Only the ID travels; the worker fetches the row from storage so
// the queue never carries stale data.
type BackupMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBackupMessage(id int64) *BackupMessage {
	return &BackupMessage{ID: id, Timestamp: time.Now()}
}

func (m *BackupMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BackupMessageFromJSON(data []byte) (*BackupMessage, error) {
	var msg BackupMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
