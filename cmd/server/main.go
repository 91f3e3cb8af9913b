// server runs the collaborative canvas HTTP API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	authservice "collab-canvas/backend/internal/auth/service"
	canvasrepo "collab-canvas/backend/internal/canvas/repository"
	canvasservice "collab-canvas/backend/internal/canvas/service"
	"collab-canvas/backend/internal/config"
	"collab-canvas/backend/internal/db"
	invitationrepo "collab-canvas/backend/internal/invitation/repository"
	invitationservice "collab-canvas/backend/internal/invitation/service"
	roomrepo "collab-canvas/backend/internal/room/repository"
	roomservice "collab-canvas/backend/internal/room/service"
	"collab-canvas/backend/internal/security"
	"collab-canvas/backend/internal/server"
	"collab-canvas/backend/internal/telemetry/otel"
	userrepo "collab-canvas/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	if cfg.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx := context.Background()
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "collab-canvas", cfg.OTLPInsecure)
	if err != nil {
		logrus.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	if cfg.OTLPEndpoint != "" {
		logrus.AddHook(otel.NewLogrusHook(providers.LoggerProvider))
	}

	var (
		users       userrepo.Repository
		rooms       roomrepo.Repository
		invitations invitationrepo.Repository
		objects     canvasrepo.Repository
		pinger      server.Pinger
	)
	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			logrus.Fatalf("db: %v", err)
		}
		defer sqlDB.Close()
		users = userrepo.NewPostgresRepository(sqlDB)
		rooms = roomrepo.NewPostgresRepository(sqlDB)
		invitations = invitationrepo.NewPostgresRepository(sqlDB)
		objects = canvasrepo.NewPostgresRepository(sqlDB)
		pinger = sqlDB
		logrus.Info("using postgres storage")
	} else {
		users = userrepo.NewMemoryRepository()
		rooms = roomrepo.NewMemoryRepository()
		invitations = invitationrepo.NewMemoryRepository()
		objects = canvasrepo.NewMemoryRepository()
		logrus.Warn("DATABASE_URL not set; using in-memory storage")
	}

	codec := security.NewTokenCodec([]byte(cfg.JWTSecret), cfg.TokenTTL())
	revoked := security.NewRevocationStore()
	hasher := security.NewHasher(cfg.BcryptCost)

	authSvc := authservice.NewAuthService(users, codec, revoked, hasher)
	roomSvc := roomservice.NewRoomService(rooms)
	invitationSvc := invitationservice.NewInvitationService(invitations, rooms, cfg.InvitationTTL())
	canvasSvc := canvasservice.NewCanvasService(objects, rooms, users)

	router := server.NewRouter(server.Deps{
		Auth:        authSvc,
		Users:       users,
		Rooms:       roomSvc,
		Invitations: invitationSvc,
		Canvas:      canvasSvc,
		CORSOrigins: splitOrigins(cfg.CORSOrigins),
		Pinger:      pinger,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Drop expired entries from the revocation store so it does not grow
	// without bound across long uptimes.
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.RevocationSweepInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed := authSvc.Sweep(time.Now().UTC())
				if removed > 0 {
					logrus.WithField("removed", removed).Info("revocation sweep")
				}
			case <-sweepDone:
				return
			}
		}
	}()

	go func() {
		logrus.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down http server")
	close(sweepDone)

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown: %v", err)
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("telemetry shutdown: %v", err)
	}
	logrus.Info("http server stopped")
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}
