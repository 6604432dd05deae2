package embedder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/jitter"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/vector"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	baseJitter = 500 * time.Millisecond
	maxJitter  = 10 * time.Second
)

var errEmptyResponse = errors.New("embedding response has no data")

// OpenAIEmbedder клиент OpenAI Embeddings API с retry-логикой и экспоненциальной задержкой
type OpenAIEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int64
	timeout    time.Duration
	maxRetries int
	backoff    jitter.Policy
	logger     logger.Logger
}

func NewOpenAIEmbedder(cfg *cfg.EmbeddingCfg, logger logger.Logger) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, e.Wrap("NewOpenAIEmbedder", fmt.Errorf("%w: OPENAI_API_KEY is required", e.ErrIncorrectEnvVariable))
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// повторы выполняются здесь, с джиттером
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	cli := openai.NewClient(opts...)

	model := openai.EmbeddingModel(cfg.Model)
	if model == "" {
		model = openai.EmbeddingModelTextEmbedding3Large
	}

	return &OpenAIEmbedder{
		client:     &cli,
		model:      model,
		dimensions: cfg.Dimensions,
		timeout:    cfg.Timeout,
		maxRetries: max(cfg.MaxRetries, 1),
		backoff:    jitter.NewPolicy(baseJitter, maxJitter, jitter.DefaultJitter),
		logger:     logger,
	}, nil
}

// Embed возвращает эмбеддинг текста. Ошибки клиента (4xx, кроме 429) не повторяются.
func (o *OpenAIEmbedder) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	const op = "OpenAIEmbedder.Embed"

	var lastErr error
	for attempt := 0; attempt < o.maxRetries; attempt++ {
		emb, err := o.embedOnce(ctx, text)
		if err == nil {
			return emb, nil
		}
		lastErr = err

		if !retryable(err) || attempt == o.maxRetries-1 {
			break
		}

		sleepTime := o.backoff.Delay(attempt)
		o.logger.Warnf("embedding request failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Upstream(op, lastErr)
}

func (o *OpenAIEmbedder) embedOnce(ctx context.Context, text string) (domain.Embedding, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model: o.model,
	}
	if o.dimensions > 0 {
		params.Dimensions = openai.Int(o.dimensions)
	}

	resp, err := o.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errEmptyResponse
	}

	return vector.FromFloat64(resp.Data[0].Embedding), nil
}

func retryable(err error) bool {
	if errors.Is(err, errEmptyResponse) || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}

	return true
}
