package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CommentAppendedMessage announces one line added to the comment log.
type CommentAppendedMessage struct {
	ID        string    `json:"id"`
	Comment   string    `json:"comment"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCommentAppendedMessage(comment string) *CommentAppendedMessage {
	return &CommentAppendedMessage{
		ID:        uuid.NewString(),
		Comment:   comment,
		Timestamp: time.Now().UTC(),
	}
}

func (m *CommentAppendedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func CommentAppendedMessageFromJSON(data []byte) (*CommentAppendedMessage, error) {
	var msg CommentAppendedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
