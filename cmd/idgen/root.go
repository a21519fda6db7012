package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/golang-io/idgen"
	"github.com/golang-io/idgen/idgentest"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "idgen",
		Short:         "Request identifiers from an identifier-generation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.AddCommand(newGenerateCmd(), newMockCmd())
	return root
}

type generateFlags struct {
	config    string
	host      string
	tenant    string
	name      string
	format    string
	count     int
	msgID     string
	authToken string
	trace     bool
	verbose   bool
	debug     bool
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a batch of identifiers and print one per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, f)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "yaml config file")
	fs.StringVar(&f.host, "host", "", "service host, overrides config and "+idgen.EnvHost)
	fs.StringVarP(&f.tenant, "tenant", "t", "", "tenant id")
	fs.StringVarP(&f.name, "name", "n", "", "id name")
	fs.StringVarP(&f.format, "format", "f", "", "id format")
	fs.IntVar(&f.count, "count", 1, "number of ids")
	fs.StringVar(&f.msgID, "msg-id", "", "RequestInfo.msgId, also sent as Request-Id")
	fs.StringVar(&f.authToken, "auth-token", "", "RequestInfo.authToken")
	fs.BoolVar(&f.trace, "trace", false, "print OpenTelemetry spans to stderr")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "print a JSON stat line per round trip")
	fs.BoolVar(&f.debug, "debug", false, "debug logging")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runGenerate(cmd *cobra.Command, f generateFlags) error {
	ctx := cmd.Context()
	cfg, err := idgen.LoadConfig(f.config)
	if err != nil {
		return err
	}
	if f.host != "" {
		cfg.Host = f.host
	}

	level := slog.LevelInfo
	if f.debug {
		level = slog.LevelDebug
	}
	opts := []idgen.ClientOption{
		idgen.WithLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))),
	}
	if f.verbose {
		opts = append(opts, idgen.WithSessionOptions(idgen.Logf(idgen.LogS)))
	}
	if f.trace {
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(cmd.ErrOrStderr()), stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		defer func() { _ = tp.Shutdown(ctx) }()
		opts = append(opts, idgen.WithTracerProvider(tp))
	}

	client, err := idgen.NewClient(cfg, opts...)
	if err != nil {
		return err
	}

	info := &idgen.RequestInfo{
		ApiId:     "idgen-cli",
		Ver:       "1.0",
		Ts:        time.Now().UnixMilli(),
		Action:    "_generate",
		MsgId:     f.msgID,
		AuthToken: f.authToken,
	}
	ids, err := client.GenerateIDs(ctx, info, f.tenant, f.name, f.format, f.count)
	if err != nil {
		reportError(cmd.ErrOrStderr(), err)
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func reportError(w io.Writer, err error) {
	var rejected *idgen.ServiceRejected
	var failure *idgen.TransportFailure
	switch {
	case errors.As(err, &rejected):
		fmt.Fprintf(w, "rejected: %s\n", rejected.Body)
	case errors.As(err, &failure):
		fmt.Fprintf(w, "transport failure: %s: %s\n", failure.CauseName, failure.Message)
	default:
		fmt.Fprintf(w, "error: %v\n", err)
	}
}

func newMockCmd() *cobra.Command {
	var listen, redisAddr, path string
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve a fake identifier-generation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var seq idgentest.Sequence
			if redisAddr != "" {
				rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
				defer rdb.Close()
				if err := rdb.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis %s: %w", redisAddr, err)
				}
				seq = idgentest.NewRedisSequence(rdb)
			}
			srv := &http.Server{
				Addr:    listen,
				Handler: idgentest.NewServer(seq, idgentest.WithPath(path), idgentest.WithMiddleware(middleware.Logger)),
			}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "idgen mock serving http://%s%s\n", listen, path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8088", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for shared sequences (memory when empty)")
	cmd.Flags().StringVar(&path, "path", idgentest.DefaultPath, "route")
	return cmd
}
