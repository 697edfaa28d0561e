package cmd

import (
	"context"
	"strings"

	"github.com/rohmanhakim/askpdf/internal/build"
	"github.com/rohmanhakim/askpdf/internal/chunk"
	"github.com/rohmanhakim/askpdf/internal/config"
	"github.com/rohmanhakim/askpdf/internal/ingest"
	"github.com/rohmanhakim/askpdf/internal/query"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Copy documents into the upload directory and add them to the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) outcome {
				s, err := a.openStore(ctx)
				if err != nil {
					return fail(err)
				}
				defer s.Close()

				pipeline := ingest.NewPipeline(
					a.recorder,
					s,
					chunk.NewSplitter(a.cfg.ChunkSize(), a.cfg.ChunkOverlap()),
					a.cfg.AllowedExtensions(),
					a.cfg.MaxFileSizeMB(),
					ingest.WithUploadDir(a.cfg.UploadDir()),
					ingest.WithConcurrency(a.cfg.Concurrency()),
				)
				return succeed(ingest.Summary(pipeline.Ingest(ctx, args)))
			})
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Answer a question from the ingested documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) outcome {
				s, err := a.openStore(ctx)
				if err != nil {
					return fail(err)
				}
				defer s.Close()

				svc := query.NewService(a.recorder, s, a.cfg.TopK(),
					query.WithRequiredEnv(a.requiredForAsk(), nil),
					query.WithGenerator(a.generator()),
				)
				answer, err := svc.Ask(ctx, strings.Join(args, " "))
				if err != nil {
					return fail(err)
				}
				return succeed(answer.Payload())
			})
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored chunk ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) outcome {
				s, err := a.openStore(ctx)
				if err != nil {
					return fail(err)
				}
				defer s.Close()

				ids, err := guarded(ctx, a, failure.KindDatabase, "list", func(ctx context.Context) ([]string, error) {
					ids, err := s.IDs(ctx)
					if err != nil {
						return nil, err
					}
					return ids, nil
				})
				if err != nil {
					return fail(err)
				}
				return succeed(map[string]any{"ids": ids, "count": len(ids)})
			})
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete chunks by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) outcome {
				s, err := a.openStore(ctx)
				if err != nil {
					return fail(err)
				}
				defer s.Close()

				n, err := guarded(ctx, a, failure.KindDatabase, "delete", func(ctx context.Context) (int, error) {
					n, err := s.Delete(ctx, args)
					if err != nil {
						return 0, err
					}
					return n, nil
				})
				if err != nil {
					return fail(err)
				}
				return succeed(map[string]any{
					"message":     "Documents deleted",
					"deleted_ids": args,
					"count":       n,
				})
			})
		},
	}
}

func newDeleteAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every stored chunk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) outcome {
				s, err := a.openStore(ctx)
				if err != nil {
					return fail(err)
				}
				defer s.Close()

				n, err := guarded(ctx, a, failure.KindDatabase, "delete-all", func(ctx context.Context) (int, error) {
					n, err := s.DeleteAll(ctx)
					if err != nil {
						return 0, err
					}
					return n, nil
				})
				if err != nil {
					return fail(err)
				}
				return succeed(map[string]any{"message": "All documents deleted", "count": n})
			})
		},
	}
}

func newCheckEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-env",
		Short: "Verify required environment variables are set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a *app) outcome {
				names := a.cfg.RequiredEnv()
				_, err := guarded(ctx, a, failure.KindConfiguration, "check-env", func(context.Context) (struct{}, error) {
					if err := config.RequireEnv(names); err != nil {
						return struct{}{}, err
					}
					return struct{}{}, nil
				})
				if err != nil {
					return fail(err)
				}
				return succeed(map[string]any{"message": "Environment is configured", "checked": names})
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printEnvelope(cmd.OutOrStdout(), failure.ToSuccessEnvelope(build.Info()), false)
		},
	}
}
