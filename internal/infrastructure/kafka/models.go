package kafka

import (
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
)

// ProductMessage — JSON-представление товара в событии. Эмбеддинг передается только размерностью.
type ProductMessage struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	EmbeddingDim int     `json:"embedding_dim"`
}

// EventMessage — значение сообщения Kafka. Ключ сообщения — ID товара.
type EventMessage struct {
	EventID    string          `json:"event_id"`
	Type       string          `json:"type"`
	ProductID  int64           `json:"product_id"`
	Product    *ProductMessage `json:"product,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func toEventMessage(event *usecase.ProductEvent) *EventMessage {
	msg := &EventMessage{
		EventID:    event.EventID,
		Type:       string(event.Type),
		ProductID:  event.ProductID,
		OccurredAt: event.OccurredAt,
	}

	if p := event.Product; p != nil {
		price, _ := p.Price.Float64()
		msg.Product = &ProductMessage{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			Price:        price,
			Image:        p.Image,
			EmbeddingDim: p.Embeddings.Dim(),
		}
	}

	return msg
}
