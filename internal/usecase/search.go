package usecase

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/vector"
)

// DefaultSimilarityThreshold — порог по умолчанию для семантического поиска.
const DefaultSimilarityThreshold = 0.7

// Score — сходство одного товара с запросом. Value == nil, если у товара нет эмбеддинга.
type Score struct {
	ProductID int64
	Title     string
	Value     *float64
}

// RankResult — товары, прошедшие порог, в исходном порядке каталога,
// и оценки всех товаров каталога.
type RankResult struct {
	Products domain.Catalog
	Scores   []Score
}

// ByID возвращает оценки по идентификатору товара.
func (r *RankResult) ByID() map[int64]*float64 {
	out := make(map[int64]*float64, len(r.Scores))
	for _, s := range r.Scores {
		out[s.ProductID] = s.Value
	}

	return out
}

// ByTitle возвращает оценки по названию товара.
// При совпадении названий остается оценка последнего товара в каталоге.
func (r *RankResult) ByTitle() map[string]*float64 {
	out := make(map[string]*float64, len(r.Scores))
	for _, s := range r.Scores {
		out[s.Title] = s.Value
	}

	return out
}

// Ranker отбирает товары, чье косинусное сходство с запросом строго больше порога.
type Ranker struct {
	Threshold float64
}

func NewRanker(threshold float64) Ranker {
	return Ranker{Threshold: threshold}
}

// Rank не изменяет ни запрос, ни каталог. Товары без эмбеддинга исключаются и получают пустую оценку.
// Пустой или вырожденный запрос, а также эмбеддинг другой размерности возвращают ошибку e.ErrInvalidVector.
func (r Ranker) Rank(query domain.Embedding, catalog domain.Catalog) (*RankResult, error) {
	if err := vector.Validate(query); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	res := &RankResult{
		Products: make(domain.Catalog, 0),
		Scores:   make([]Score, 0, len(catalog)),
	}

	for _, p := range catalog {
		if !p.HasEmbedding() {
			res.Scores = append(res.Scores, Score{ProductID: p.ID, Title: p.Title})
			continue
		}

		sim, err := vector.Cosine(p.Embeddings, query)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", p.ID, err)
		}

		res.Scores = append(res.Scores, Score{ProductID: p.ID, Title: p.Title, Value: &sim})
		if sim > r.Threshold {
			res.Products = append(res.Products, p)
		}
	}

	return res, nil
}

// PrefixSearch — регистронезависимый поиск по началу названия (и описания, если withDescription).
// Пустой запрос возвращает каталог без фильтрации.
func PrefixSearch(catalog domain.Catalog, query string, withDescription bool) domain.Catalog {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return catalog
	}

	out := make(domain.Catalog, 0)
	for _, p := range catalog {
		if strings.HasPrefix(strings.ToLower(p.Title), q) ||
			(withDescription && strings.HasPrefix(strings.ToLower(p.Description), q)) {
			out = append(out, p)
		}
	}

	return out
}
