package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"slices"

	"github.com/rohmanhakim/askpdf/internal/config"
	"github.com/rohmanhakim/askpdf/internal/guard"
	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/internal/query"
	"github.com/rohmanhakim/askpdf/internal/store"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"github.com/spf13/cobra"
)

// app is the per-invocation state of a command: its configuration and the
// error recorder that lives exactly as long as the command.
type app struct {
	cfg      config.Config
	recorder *metadata.Recorder
}

// outcome is what a command body produces: a success payload or a
// classified error that has already been recorded.
type outcome struct {
	payload map[string]any
	err     *failure.Error
}

func succeed(payload map[string]any) outcome {
	return outcome{payload: payload}
}

func fail(err *failure.Error) outcome {
	return outcome{err: err}
}

// run sets up the app around body, prints the resulting envelope and maps
// a failure envelope to ErrCommandFailed.
func run(cmd *cobra.Command, body func(ctx context.Context, a *app) outcome) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, cfgErr := InitConfigWithError()
	if cfgErr != nil {
		recorder := openRecorder(cmd, fallbackLogPath())
		defer func() { _ = recorder.Shutdown() }()

		_, classified := guard.Run(ctx, recorder, func(context.Context) (struct{}, error) {
			return struct{}{}, cfgErr
		}, failure.KindConfiguration, failure.Details{metadata.AttrOperation: cmd.Name()})
		return printEnvelope(out, failure.ToEnvelope(classified), true)
	}

	recorder := openRecorder(cmd, cfg.LogPath())
	defer func() { _ = recorder.Shutdown() }()

	result := body(ctx, &app{cfg: cfg, recorder: recorder})
	if result.err != nil {
		return printEnvelope(out, failure.ToEnvelope(result.err), true)
	}
	return printEnvelope(out, failure.ToSuccessEnvelope(result.payload), false)
}

// openRecorder initializes the error log at path. A log that cannot be
// opened is reported and the command continues console-only.
func openRecorder(cmd *cobra.Command, path string) *metadata.Recorder {
	recorder := metadata.NewRecorder(path, cmd.ErrOrStderr())
	if err := recorder.Initialize(); err != nil {
		cmd.PrintErrf("warning: error log unavailable (%v), logging to console only\n", err)
	}
	return recorder
}

// fallbackLogPath is where failures go when the configuration itself could
// not be built: the --log-file flag when given, else the default path.
func fallbackLogPath() string {
	if logFile != "" {
		return logFile
	}
	return metadata.DefaultLogPath
}

func printEnvelope(w io.Writer, env failure.Envelope, failed bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return err
	}
	if failed {
		return ErrCommandFailed
	}
	return nil
}

// openStore opens the chunk store behind a boundary so a failure is
// recorded once.
func (a *app) openStore(ctx context.Context) (*store.SQLiteStore, *failure.Error) {
	return guard.Run(ctx, a.recorder, func(ctx context.Context) (*store.SQLiteStore, error) {
		s, err := store.Open(ctx, a.cfg.PersistDir())
		if err != nil {
			return nil, err
		}
		return s, nil
	}, failure.KindDatabase, failure.Details{metadata.AttrOperation: "open store"})
}

// guarded runs op behind a boundary labelled with the command name.
func guarded[T any](
	ctx context.Context,
	a *app,
	fallback failure.Kind,
	operation string,
	op func(ctx context.Context) (T, error),
) (T, *failure.Error) {
	return guard.Run(ctx, a.recorder, op, fallback, failure.Details{metadata.AttrOperation: operation})
}

// generator builds the answer generator the configuration selects.
func (a *app) generator() query.Generator {
	if a.cfg.Generator() != config.GeneratorChat {
		return query.ExtractiveGenerator{}
	}
	return query.NewChatGenerator(
		a.cfg.ModelBaseURL(),
		os.Getenv(a.cfg.APIKeyEnv()),
		a.cfg.Model(),
		a.cfg.Temperature(),
	)
}

// requiredForAsk is the configured required env plus, for the chat
// generator, its API key variable.
func (a *app) requiredForAsk() []string {
	names := a.cfg.RequiredEnv()
	if a.cfg.Generator() == config.GeneratorChat && !slices.Contains(names, a.cfg.APIKeyEnv()) {
		names = append(names, a.cfg.APIKeyEnv())
	}
	return names
}
