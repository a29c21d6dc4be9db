package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/flowgate/oauth2server/clients"
	"github.com/flowgate/oauth2server/internal/cleanup"
	"github.com/flowgate/oauth2server/internal/config"
	"github.com/flowgate/oauth2server/scopes"
	"github.com/flowgate/oauth2server/server"
	"github.com/flowgate/oauth2server/token"
	jwtissuer "github.com/flowgate/oauth2server/token/jwt"
	"github.com/flowgate/oauth2server/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxSessionIdle = 30 * time.Minute

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	configureLogging(c)
	displayAppname(c.GetAppName())

	issuer, err := tokenIssuer(c)
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}

	srv, err := server.New(c, server.Deps{
		Clients: demoClients(),
		Scopes:  scopeCatalog(),
		Users:   demoUsers(),
		Issuer:  issuer,
	})
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	sweeper := cleanup.NewSweeper(c.GetSweepInterval(), srv.SweepTasks(maxSessionIdle)...)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func configureLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func tokenIssuer(c config.Config) (token.Issuer, error) {
	if c.GetTokenStrategy() == config.TokenStrategyJWT {
		return jwtissuer.NewIssuer([]byte(c.GetJWTSecret()), c.GetIssuerName())
	}
	return token.NewBearerIssuer(), nil
}

func scopeCatalog() *scopes.Registry {
	return scopes.NewRegistry([]scopes.Scope{
		{Name: "profile", Claims: []string{"username", "name"}},
		{Name: "email", Claims: []string{"email"}},
	})
}

func demoClients() clients.Repo {
	return clients.NewInMemoryRepo(&clients.Client{
		ID:          config.GetEnv("CLIENT_ID", "demo"),
		Secret:      config.GetEnv("CLIENT_SECRET", "demo-secret"),
		CallbackURL: config.GetEnv("CLIENT_CALLBACK", "http://localhost:9090/callback"),
		Description: "bootstrap client",
	})
}

func demoUsers() users.Repo {
	repo := users.NewInMemoryRepo()
	username := config.GetEnv("DEMO_USER", "demo")
	if err := repo.AddWithPassword(&users.User{
		Username: username,
		Attributes: map[string]string{
			"name":  "Demo User",
			"email": username + "@example.com",
		},
	}, config.GetEnv("DEMO_PASSWORD", "Demo1234")); err != nil {
		log.Err(err).Msg("failed to seed demo user")
	}
	return repo
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
