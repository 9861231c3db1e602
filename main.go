package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"diplomas/config"
	diplomaController "diplomas/controllers/diploma"
	settingsController "diplomas/controllers/settings"
	"diplomas/database"
	"diplomas/middleware"
	"diplomas/render"
	"diplomas/routers"
	"diplomas/utils"
)

const bodyLimit = 20 * 1024 * 1024

var rootCmd = &cobra.Command{
	Use:   "diplomas",
	Short: "Diploma issuing and verification API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig()
	},
	RunE: serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations and exit",
	Run: func(cmd *cobra.Command, args []string) {
		database.ConnectDb()
		log.Info("Migrations applied")
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo organization, admin and sample data",
	RunE: func(cmd *cobra.Command, args []string) error {
		database.ConnectDb()
		_, err := database.Seed(database.Database.Db, config.AppConfig.SaltRound)
		return err
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove stale generated PDF and PNG files once",
	Run: func(cmd *cobra.Command, args []string) {
		n := utils.CleanupGeneratedFiles(config.AppConfig.GeneratedDir, config.AppConfig.CleanupMaxAge)
		log.WithField("removed", n).Info("Cleanup finished")
	},
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "diplomas",
		BodyLimit:    bodyLimit,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${ip} ${method} ${path} ${status} ${latency}\n",
	}))
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			// PDFs, PNGs and ZIPs are already compressed
			return strings.Contains(c.Path(), "/download")
		},
	}))
	return app
}

func serve(cmd *cobra.Command, args []string) error {
	database.ConnectDb()
	cfg := config.AppConfig

	var inliner *render.AssetInliner
	if cfg.InlineAssets {
		inliner = render.NewAssetInliner(cfg.UploadsDir, cfg.RenderTimeout)
	}
	renderer := render.NewBrowserRenderer(render.BrowserOptions{
		ExecPath:    cfg.ChromePath,
		Timeout:     cfg.RenderTimeout,
		Concurrency: cfg.RenderConcurrency,
		Inliner:     inliner,
	})
	defer renderer.Close()

	mailer := utils.NewMailer(cfg.MailProvider, cfg.SendGridAPIKey)

	scheduler, err := utils.InitializeCleanupScheduler(cfg.CleanupCron, cfg.GeneratedDir, cfg.CleanupMaxAge)
	if err != nil {
		return err
	}
	defer scheduler.Stop()

	app := newApp()
	routers.SetupRoutes(app, routers.Handlers{
		Diplomas: diplomaController.NewHandler(cfg, renderer, mailer),
		Settings: &settingsController.Handler{Mailer: mailer},
	}, cfg.VerifyRateLimit)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	serveErr := runServer(app, ":"+cfg.Port, quit)

	if sqlDB, err := database.Database.Db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return serveErr
}

// runServer listens on addr until quit fires or the listener fails, then shuts the app down
func runServer(app *fiber.App, addr string, quit <-chan os.Signal) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Printf("Server is running on %s", addr)
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		return errors.Wrap(err, "server error")
	case <-quit:
	}
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.WithError(err).Warn("shutdown did not complete cleanly")
	}
	return nil
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, cleanupCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
