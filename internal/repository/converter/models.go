package converter

import "github.com/shopspring/decimal"

// ProductModel — представление товара в JSON-снапшоте каталога.
// Формат общий для Redis, PostgreSQL и SQLite.
type ProductModel struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       Price     `json:"price"`
	Image       string    `json:"image"`
	Embeddings  []float32 `json:"embeddings"`
}

// Price хранится в JSON числом, а не строкой.
type Price decimal.Decimal

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(p).String()), nil
}

// UnmarshalJSON принимает и число, и строку.
func (p *Price) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}

	*p = Price(d)
	return nil
}
