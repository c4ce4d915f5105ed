package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docsengine/internal/engine"
	"docsengine/internal/errinfo"
	"docsengine/internal/rpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve JSON-RPC 2.0 requests on stdin and stdout",
	Long: `Reads one JSON-RPC request per line on stdin and writes one response per
line on stdout. Requests are handled in order. Logs go to <data-dir>/logs
when DOCSENGINE_DEBUG is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(true, "")
		if err != nil {
			return err
		}
		defer env.close()
		logger := env.logger

		eng, err := engine.New(engine.WithLogger(logger), engine.WithDataDir(env.dataDir))
		if err != nil {
			logger.Error("engine.init_failed", "error", err.Error())
			return err
		}
		server := rpc.NewServer(engine.APIVersion, os.Stdin, os.Stdout, logger)
		register(server, eng)
		logger.Info("rpc.serving", "methods", len(server.Methods()))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := server.Serve(ctx); err != nil && ctx.Err() == nil {
			logger.Error("rpc.server_error", "error", err.Error())
			return err
		}
		return nil
	},
}

func register(server *rpc.Server, eng *engine.Engine) {
	add := func(method string, fn func(context.Context, json.RawMessage) (any, *errinfo.ErrorInfo)) {
		server.Register(method, func(ctx context.Context, params json.RawMessage) (any, *rpc.Error) {
			result, errInfo := fn(ctx, params)
			if errInfo != nil {
				msg := errInfo.ErrorCode
				if errInfo.Detail != "" {
					msg = errInfo.Detail
				}
				return nil, &rpc.Error{Message: msg, Data: errInfo}
			}
			return result, nil
		})
	}

	add("EngineGetInfo", eng.EngineGetInfo)
	add("CredentialsGetStatus", eng.CredentialsGetStatus)
	add("CredentialsSet", eng.CredentialsSet)
	add("CredentialsClear", eng.CredentialsClear)
	add("DocsResolveTarget", eng.DocsResolveTarget)
	add("DocsGetText", eng.DocsGetText)

	add("DocsInsertText", eng.DocsInsertText)
	add("DocsDeleteText", eng.DocsDeleteText)
	add("DocsReplaceText", eng.DocsReplaceText)
	add("DocsStyleText", eng.DocsStyleText)
	add("DocsStyleParagraph", eng.DocsStyleParagraph)
	add("DocsApplyEdits", eng.DocsApplyEdits)
	add("DocsPreviewEdits", eng.DocsPreviewEdits)
}
