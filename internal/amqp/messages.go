package amqp

import (
	"encoding/json"
	"time"
)

// Event names carried on expense lifecycle messages.
const (
	EventExpenseCreated = "expense.created"
	EventExpenseDeleted = "expense.deleted"
)

// ExpenseEventMessage notifies downstream consumers that an expense was
// created or deleted. It carries identifiers only; consumers that need the
// full record fetch it themselves.
type ExpenseEventMessage struct {
	Event     string    `json:"event"`
	ExpenseID int64     `json:"expense_id"`
	AccountID int64     `json:"account_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEventMessage builds a message stamped with the current time.
func NewExpenseEventMessage(event string, expenseID, accountID int64) *ExpenseEventMessage {
	return &ExpenseEventMessage{
		Event:     event,
		ExpenseID: expenseID,
		AccountID: accountID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ExpenseEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseEventMessageFromJSON parses a message from JSON bytes.
func ExpenseEventMessageFromJSON(data []byte) (*ExpenseEventMessage, error) {
	var msg ExpenseEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
