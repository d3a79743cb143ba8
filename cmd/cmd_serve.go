package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/internal/config"
	"github.com/gaze-network/crc20-resolver/modules/crc20/api"
	"github.com/gaze-network/crc20-resolver/modules/crc20/usecase"
	"github.com/gaze-network/crc20-resolver/pkg/automaxprocs"
	"github.com/gaze-network/crc20-resolver/pkg/errorhandler"
	"github.com/gaze-network/crc20-resolver/pkg/logger"
	"github.com/gaze-network/crc20-resolver/pkg/logger/slogx"
	"github.com/gaze-network/crc20-resolver/pkg/middleware/requestcontext"
	"github.com/gaze-network/crc20-resolver/pkg/middleware/requestlogger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CRC20 resolver HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			undo, err := automaxprocs.Init()
			if err != nil {
				logger.Error("Failed to set GOMAXPROCS", slogx.Error(err))
			}
			defer undo()
			return serveHandler(cmd, args)
		},
	}

	flags := serveCmd.Flags()
	flags.Int("port", 8080, "HTTP server port")
	config.BindPFlag("http_server.port", flags.Lookup("port"))

	return serveCmd
}

func serveHandler(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	injector, conf := newInjector(ctx, cmd)
	ctx = logger.WithContext(ctx, slogx.Stringer("network", conf.Network))

	do.Provide(injector, func(i do.Injector) (*fiber.App, error) {
		conf := do.MustInvoke[config.Config](i)
		app := fiber.New(fiber.Config{
			AppName:               "CRC20 Resolver",
			ErrorHandler:          errorhandler.NewHTTPErrorHandler(),
			DisableStartupMessage: true,
		})
		app.
			Use(favicon.New()).
			Use(cors.New()).
			Use(requestid.New()).
			Use(requestcontext.New(
				requestcontext.WithRequestId(),
				requestcontext.WithClientIP(conf.HTTPServer.ClientIPHeader),
			)).
			Use(requestlogger.New(conf.HTTPServer.Logger)).
			Use(fiberrecover.New(fiberrecover.Config{
				EnableStackTrace: true,
				StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
					buf := make([]byte, 1024)
					buf = buf[:runtime.Stack(buf, false)]
					logger.ErrorContext(c.UserContext(), "Something went wrong, panic in http handler", slogx.Any("panic", e), slog.String("stacktrace", string(buf)))
				},
			})).
			Use(compress.New(compress.Config{
				Level: compress.LevelDefault,
			}))

		// Health check
		app.Get("/", func(c *fiber.Ctx) error {
			return errors.WithStack(c.SendStatus(http.StatusOK))
		})
		return app, nil
	})

	uc, err := do.Invoke[*usecase.Usecase](injector)
	if err != nil {
		return errors.Wrap(err, "can't init resolver")
	}
	httpServer := do.MustInvoke[*fiber.App](injector)
	if err := api.NewHTTPHandler(uc).Mount(httpServer); err != nil {
		return errors.Wrap(err, "can't mount API")
	}
	logger.InfoContext(ctx, "Mounted HTTP handler")

	serveErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Started HTTP server", slog.Int("port", conf.HTTPServer.Port))
		serveErr <- httpServer.Listen(fmt.Sprintf(":%d", conf.HTTPServer.Port))
	}()

	select {
	case err := <-serveErr:
		_ = injector.Shutdown()
		return errors.Wrap(err, "HTTP server stopped")
	case <-ctx.Done():
	}

	logger.InfoContext(ctx, "Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.HTTPServer.ShutdownTimeout)
	defer cancel()
	if err := httpServer.ShutdownWithContext(shutdownCtx); err != nil {
		logger.ErrorContext(ctx, "Failed to gracefully shut down HTTP server", slogx.Error(err))
	}
	if err := injector.Shutdown(); err != nil {
		return errors.Wrap(err, "failed while gracefully shutting down")
	}
	logger.InfoContext(ctx, "Stopped")
	return nil
}
