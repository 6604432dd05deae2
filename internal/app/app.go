package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/catalog-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/catalog-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure/auth"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure/embedder"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/catalog-backend/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/catalog-backend/internal/repository/minio"
	qdrantRepo "github.com/DRSN-tech/catalog-backend/internal/repository/qdrant"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/closer"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/jitter"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout     = 10 * time.Second
	shutdownTimeout = 10 * time.Second
	topicTimeout    = 10 * time.Second
)

var catalogRetry = jitter.NewPolicy(time.Second, 30*time.Second, jitter.DefaultJitter)

// App собирает зависимости сервиса каталога и управляет его жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	catalogUC    *usecase.CatalogUseCase
	catalogReady bool
	imageUC      usecase.ImageUC
	images       *minioInfra.MinioInfrastructure

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer

	// отменяется при остановке, прерывает фоновую очистку изображений
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:            cfg,
		logger:         logger,
		closer:         closer.NewCloser(0),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	if err := a.init(); err != nil {
		a.closeResources()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	repo, err := NewCatalogRepository(ctx, a.cfg, a.logger, a.closer)
	if err != nil {
		return err
	}

	emb, err := a.initEmbedder()
	if err != nil {
		return err
	}

	publisher, err := a.initPublisher()
	if err != nil {
		return err
	}

	index, err := a.initEmbeddingIndex(ctx)
	if err != nil {
		return err
	}

	verifier := auth.NewBcryptVerifier(a.cfg.Admin.PasswordHash)

	a.catalogUC = usecase.NewCatalogUC(repo, emb, verifier, publisher, index, a.cfg.Catalog, a.logger)
	if err := a.catalogUC.Init(ctx); err != nil {
		// сервис стартует NOT_SERVING, загрузка повторяется в фоне после Run
		a.logger.Errorf(err, "initial catalog load failed, retrying in background")
	} else {
		a.catalogReady = true
	}

	if err := a.initImages(ctx, verifier); err != nil {
		return err
	}

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.cfg.Http, a.logger).Init(a.catalogUC, a.imageUC, a.cfg.Minio.MaxImageSize)
	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)

	return nil
}

func (a *App) initEmbedder() (usecase.Embedder, error) {
	return NewEmbedder(a.cfg.Embedding, a.logger)
}

// NewEmbedder создает провайдер эмбеддингов по EMBEDDING_PROVIDER.
// Для "none" возвращается заглушка, и семантический поиск сводится к префиксному.
func NewEmbedder(cfg *config.EmbeddingCfg, log logger.Logger) (usecase.Embedder, error) {
	if cfg.Provider != config.EmbeddingOpenAI {
		log.Warnf("embedding provider is disabled, semantic search falls back to prefix search")
		return usecase.NewDisabledEmbedder(), nil
	}

	emb, err := embedder.NewOpenAIEmbedder(cfg, log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return emb, nil
}

func (a *App) initPublisher() (usecase.EventPublisher, error) {
	if !a.cfg.Kafka.Enabled {
		return usecase.NewNoopPublisher(), nil
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.AddFunc("kafka", producer.Close)

	if err := producer.EnsureTopic(topicTimeout); err != nil {
		a.logger.Warnf("failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}

	return producer, nil
}

func (a *App) initEmbeddingIndex(ctx context.Context) (usecase.EmbeddingIndex, error) {
	if !a.cfg.Qdrant.Enabled {
		return usecase.NewNoopEmbeddingIndex(), nil
	}

	client, err := clients.NewQdrantClient(a.cfg.Qdrant)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.AddFunc("qdrant", client.Close)

	if err := clients.EnsureCollection(ctx, client); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return qdrantRepo.NewEmbeddingRepo(client.Client, a.cfg.Qdrant), nil
}

// initImages включает загрузку изображений, если настроен MinIO. Иначе imageUC остается nil.
func (a *App) initImages(ctx context.Context, verifier usecase.PasswordVerifier) error {
	if !a.cfg.Minio.Enabled {
		return nil
	}

	client, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := clients.EnsureBucket(ctx, client, a.cfg.Minio.BucketName); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	imageRepo := s3Repo.NewImageRepo(client, a.cfg.Minio)
	a.images = minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, a.shutdownCtx)
	a.imageUC = usecase.NewImageUC(a.images, verifier, a.logger)

	return nil
}

// Run запускает HTTP и gRPC серверы и блокируется до сигнала остановки или ошибки сервера.
func (a *App) Run() error {
	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			grpcErrCh <- err
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if a.catalogReady {
		a.grpcSrv.SetServing(true)
	} else {
		a.grpcSrv.SetServing(false)
		go serveWhenReady(a.shutdownCtx, a.catalogUC.Init, a.grpcSrv.SetServing, catalogRetry, a.logger)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case sig := <-shutdown:
		a.logger.Infof("received %s, stopping gracefully...", sig)
	}

	a.stop()

	if appErr != nil {
		return e.Wrap(whereami.WhereAmI(), appErr)
	}
	return nil
}

func (a *App) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.grpcSrv.SetServing(false)

	if err := a.httpSrv.Stop(ctx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if err := a.grpcSrv.Stop(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		a.logger.Errorf(err, "gRPC server shutdown error")
	}

	if a.images != nil {
		if err := a.images.WaitForCleanup(ctx); err != nil {
			a.logger.Warnf("MinIO cleanup did not finish before shutdown, some orphaned objects may remain: %v", err)
		}
	}

	a.closeResources()
	a.logger.Infof("Application shutdown complete")
}

func (a *App) closeResources() {
	a.shutdownCancel()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "failed to close resources")
	}
}

// serveWhenReady повторяет первую загрузку каталога с экспоненциальной задержкой
// и переводит health-статус в SERVING после успеха. Останавливается по ctx.
func serveWhenReady(ctx context.Context, initCatalog func(context.Context) error, setServing func(bool),
	backoff jitter.Policy, log logger.Logger) {
	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff.Delay(attempt)):
		}

		if err := initCatalog(ctx); err != nil {
			log.Warnf("catalog load attempt %d failed: %v", attempt+1, err)
			continue
		}

		log.Infof("catalog loaded after %d retries, serving", attempt+1)
		setServing(true)
		return
	}
}
