package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"credit-ledger/internal/domain"
)

const subjectTransactionPosted = "transactions.posted"

// Publisher notifies downstream consumers about postings. Publishing is
// best effort and happens after the storage transaction has committed; a
// failed publish never fails the posting.
type Publisher interface {
	TransactionPosted(tx *domain.Transaction)
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) TransactionPosted(*domain.Transaction) {}

type TransactionPostedEvent struct {
	TransactionID   int64     `json:"transaction_id"`
	AccountID       int64     `json:"account_id"`
	OperationTypeID int64     `json:"operation_type_id"`
	Amount          string    `json:"amount"`
	EventDate       time.Time `json:"event_date"`
}

// NATSPublisher publishes TransactionPostedEvent JSON to NATS.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewNATSPublisher(url string, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *NATSPublisher) TransactionPosted(tx *domain.Transaction) {
	event := TransactionPostedEvent{
		TransactionID:   tx.ID,
		AccountID:       tx.AccountID,
		OperationTypeID: tx.OperationTypeID,
		Amount:          tx.Amount.String(),
		EventDate:       tx.EventDate,
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal transaction event", "transaction_id", tx.ID, "error", err)
		return
	}

	if err := p.conn.Publish(subjectTransactionPosted, data); err != nil {
		p.logger.Warn("Failed to publish transaction event", "transaction_id", tx.ID, "error", err)
	}
}

func (p *NATSPublisher) Close() {
	p.conn.Close()
}
