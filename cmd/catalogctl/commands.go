package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/app"
	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure/auth"
	"github.com/DRSN-tech/catalog-backend/internal/repository/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/closer"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const commandTimeout = 2 * time.Minute

func newHashPasswordCmd() *cobra.Command {
	var asEnv bool

	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash of the admin password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}

			if asEnv {
				// "$" в .env интерполируется, поэтому хеш экранируется
				fmt.Fprintf(cmd.OutOrStdout(), "ADMIN_PASSWORD_HASH=%s\n", config.EscapeHash(hash))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asEnv, "env", false, "Print as an escaped ADMIN_PASSWORD_HASH line for .env")

	return cmd
}

func newExportCmd(envFile *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored catalog snapshot as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			return withRepository(ctx, *envFile, func(repo usecase.CatalogRepository, _ *config.Config, _ logger.Logger) error {
				catalog, err := repo.Load(ctx)
				if err != nil {
					return err
				}

				data, err := converter.NewCatalogConverter().Marshal(catalog)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if out != "" && out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}

				if _, err := w.Write(append(data, '\n')); err != nil {
					return err
				}

				color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "exported %d products\n", len(catalog))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")

	return cmd
}

func newImportCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored catalog snapshot with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := readCatalog(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			return withRepository(ctx, *envFile, func(repo usecase.CatalogRepository, _ *config.Config, _ logger.Logger) error {
				if err := repo.Save(ctx, catalog); err != nil {
					return err
				}

				color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "imported %d products\n", len(catalog))
				return nil
			})
		},
	}

	return cmd
}

func newReindexCmd(envFile *string) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Compute embeddings for products that have none",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			return withRepository(ctx, *envFile, func(repo usecase.CatalogRepository, cfg *config.Config, log logger.Logger) error {
				emb, err := app.NewEmbedder(cfg.Embedding, log)
				if err != nil {
					return err
				}

				uc := usecase.NewCatalogUC(repo, emb, auth.NewBcryptVerifier(cfg.Admin.PasswordHash),
					usecase.NewNoopPublisher(), usecase.NewNoopEmbeddingIndex(), cfg.Catalog, log)
				if err := uc.Init(ctx); err != nil {
					return err
				}

				res, err := uc.Reindex(ctx, &usecase.ReindexReq{Password: password})
				if err != nil {
					return err
				}

				c := color.New(color.FgGreen)
				if res.Updated < res.Total {
					c = color.New(color.FgYellow)
				}
				c.Fprintf(cmd.OutOrStdout(), "embeddings computed for %d products, %d total\n", res.Updated, res.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Admin password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// withRepository загружает конфигурацию и открывает хранилище снапшота на время fn.
func withRepository(ctx context.Context, envFile string,
	fn func(repo usecase.CatalogRepository, cfg *config.Config, log logger.Logger) error) error {
	log := logger.NewSlogLoggerWithWriter(os.Stderr, os.Getenv("LOG_LEVEL"))

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg, err := config.Load(log)
	if err != nil {
		return err
	}

	c := closer.NewCloser(0)
	defer func() {
		if err := c.Close(context.Background()); err != nil {
			log.Warnf("failed to close resources: %v", err)
		}
	}()

	repo, err := app.NewCatalogRepository(ctx, cfg, log, c)
	if err != nil {
		return err
	}

	return fn(repo, cfg, log)
}

// readCatalog читает снапшот из файла или из stdin, если path == "-".
func readCatalog(stdin io.Reader, path string) (domain.Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	return converter.NewCatalogConverter().Unmarshal(data)
}
