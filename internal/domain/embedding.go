package domain

// Embedding — вектор, вычисленный провайдером по названию товара.
// Вектор неизменяем после вычисления: при правке товара он либо переносится как есть, либо заменяется новым.
type Embedding []float32

// Dim возвращает размерность вектора.
func (e Embedding) Dim() int {
	return len(e)
}
