package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httprouter "github.com/farmadesk/stockdesk/internal/interfaces/http"
	"github.com/farmadesk/stockdesk/internal/infrastructure/memory"
	"github.com/farmadesk/stockdesk/pkg/config"
	"github.com/farmadesk/stockdesk/pkg/logger"
)

// mockapi es el backend de desarrollo: catálogo y movimientos en memoria con
// el mismo contrato HTTP que el backend real, para ejercitar stockdesk
// de punta a punta.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})

	secret := cfg.JWT.Secret
	if secret == "" {
		secret = "mockapi-dev-secret"
		log.Warn().Msg("JWT_SECRET vacío; usando secret de desarrollo")
	}

	store := memory.NewSeeded()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + "-mockapi",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name + "-mockapi"})
	})

	httprouter.Router(app, httprouter.RouterDeps{
		Store:         store,
		JWTSecret:     secret,
		JWTIssuer:     cfg.JWT.Issuer,
		JWTExpMinutes: cfg.JWT.Expiration,
	})

	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("backend de desarrollo escuchando")
	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
