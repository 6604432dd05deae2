package domain

// Catalog — упорядоченный список товаров, единица хранения.
type Catalog []Product

// MaxID возвращает наибольший идентификатор или 0 для пустого каталога.
func (c Catalog) MaxID() int64 {
	var maxID int64
	for _, p := range c {
		if p.ID > maxID {
			maxID = p.ID
		}
	}

	return maxID
}

// NextID возвращает идентификатор для нового товара: max+1, для пустого каталога — 1.
func (c Catalog) NextID() int64 {
	return c.MaxID() + 1
}

// IndexOf возвращает позицию товара с id или -1.
func (c Catalog) IndexOf(id int64) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}

	return -1
}

// Find возвращает копию товара с id.
func (c Catalog) Find(id int64) (Product, bool) {
	if i := c.IndexOf(id); i >= 0 {
		return c[i], true
	}

	return Product{}, false
}

// Clone копирует список. Срезы Embeddings разделяются, так как не изменяются на месте.
func (c Catalog) Clone() Catalog {
	if c == nil {
		return Catalog{}
	}

	out := make(Catalog, len(c))
	copy(out, c)
	return out
}

// Without возвращает новый каталог без товара id и признак того, что товар был найден.
func (c Catalog) Without(id int64) (Catalog, bool) {
	out := make(Catalog, 0, len(c))
	found := false
	for _, p := range c {
		if p.ID == id {
			found = true
			continue
		}
		out = append(out, p)
	}

	return out, found
}
