package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/echoctl/internal/admin"
	"github.com/danmuck/echoctl/internal/echo"
	"github.com/danmuck/echoctl/internal/observability"
	"github.com/rs/zerolog/log"
)

func main() {
	observability.InitLogger("echoctl")
	configPath := flag.String("config", "", "config file path (TOML); defaults apply when omitted")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *configPath != "" {
		log.Info().Str("path", *configPath).Msg("loaded config")
	}

	ln, err := echo.Listen(echo.ListenSpec{
		IP:      cfg.BindIP,
		Port:    cfg.Port,
		Backlog: cfg.Backlog,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("listener setup failed")
	}

	srv := echo.NewServer(cfg.Name, cfg.MaxMsgLen)

	if cfg.AdminAddr != "" {
		plane := admin.Appear(cfg.Name, cfg.AdminAddr, srv, cfg.CorsOrigins)
		go func() {
			if err := plane.Serve(); err != nil {
				log.Error().Err(err).Msg("admin plane stopped")
			}
		}()
		log.Info().Str("addr", cfg.AdminAddr).Msg("admin plane started")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("id", cfg.Name).
		Str("addr", ln.Addr().String()).
		Int("max_msg_len", cfg.MaxMsgLen).
		Msg("echo server listening")
	if err := srv.Serve(ctx, ln); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server shut down")
}
