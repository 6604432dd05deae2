package domain

import "github.com/shopspring/decimal"

// Product описывает товар каталога
type Product struct {
	ID          int64
	Title       string
	Description string
	Price       decimal.Decimal
	Image       string    // URL или путь к изображению
	Embeddings  Embedding // nil, если эмбеддинг не удалось получить
}

func NewProduct(id int64, title, description string, price decimal.Decimal, image string) *Product {
	return &Product{
		ID:          id,
		Title:       title,
		Description: description,
		Price:       price,
		Image:       image,
	}
}

// HasEmbedding сообщает, участвует ли товар в семантическом поиске.
func (p *Product) HasEmbedding() bool {
	return len(p.Embeddings) > 0
}
