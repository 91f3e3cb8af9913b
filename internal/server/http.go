// Package server assembles the HTTP API router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	authhandler "collab-canvas/backend/internal/auth/handler"
	authservice "collab-canvas/backend/internal/auth/service"
	canvashandler "collab-canvas/backend/internal/canvas/handler"
	canvasservice "collab-canvas/backend/internal/canvas/service"
	invitationhandler "collab-canvas/backend/internal/invitation/handler"
	invitationservice "collab-canvas/backend/internal/invitation/service"
	roomhandler "collab-canvas/backend/internal/room/handler"
	roomservice "collab-canvas/backend/internal/room/service"
	"collab-canvas/backend/internal/server/middleware"
)

// Deps holds the service dependencies for the HTTP handlers.
type Deps struct {
	// Auth backs signup/login/logout and the authn middleware.
	Auth *authservice.AuthService
	// Users resolves the current subject for GET /api/users/me.
	Users authservice.UserRepo
	// Rooms backs the room endpoints.
	Rooms *roomservice.RoomService
	// Invitations backs invitation creation and redemption.
	Invitations *invitationservice.InvitationService
	// Canvas backs the per-room object endpoints.
	Canvas *canvasservice.CanvasService
	// CORSOrigins is the list of allowed browser origins.
	CORSOrigins []string
	// Pinger reports storage liveness for the health endpoint (e.g. *sql.DB).
	// Nil skips the storage check.
	Pinger Pinger
}

// Pinger is anything that can report storage liveness.
type Pinger interface {
	Ping() error
}

// NewRouter builds the API router:
//
//	POST /api/users/signup                     public
//	POST /api/users/login                      public
//	POST /api/users/logout                     public (reads its own bearer)
//	GET  /api/users/me                         authenticated
//	POST /api/rooms                            authenticated
//	GET  /api/rooms                            authenticated
//	GET  /api/rooms/{roomID}                   authenticated
//	POST /api/rooms/{roomID}/invitations       authenticated
//	POST /api/invitations/{code}/accept        authenticated
//	POST /api/rooms/{roomID}/objects           authenticated
//	GET  /api/rooms/{roomID}/objects           authenticated
//	POST /api/rooms/{roomID}/objects/undo      authenticated
//	POST /api/rooms/{roomID}/objects/redo      authenticated
//	PUT  /api/rooms/{roomID}/objects/{objectID}    authenticated
//	DELETE /api/rooms/{roomID}/objects/{objectID}  authenticated
//	GET  /health                               public
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger())
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authn := middleware.Authenticate(deps.Auth)
	authH := authhandler.NewHandler(deps.Auth, deps.Users)
	roomH := roomhandler.NewHandler(deps.Rooms)
	invH := invitationhandler.NewHandler(deps.Invitations)
	canvasH := canvashandler.NewHandler(deps.Canvas)

	r.Get("/health", healthHandler(deps.Pinger))

	r.Route("/api", func(api chi.Router) {
		api.Mount("/users", authH.Routes(authn))
		api.With(authn).Mount("/invitations", invH.AcceptRoutes())
		api.Route("/rooms", func(rooms chi.Router) {
			rooms.Use(authn)
			rooms.Mount("/", roomH.Routes())
			rooms.Mount("/{roomID}/invitations", invH.RoomRoutes())
			rooms.Mount("/{roomID}/objects", canvasH.Routes())
		})
	})

	return otelhttp.NewHandler(r, "http.server")
}

// healthHandler reports process liveness and, when a Pinger is configured,
// storage reachability.
func healthHandler(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			if err := pinger.Ping(); err != nil {
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, map[string]string{"status": "degraded", "error": err.Error()})
				return
			}
		}
		render.JSON(w, r, map[string]string{"status": "ok"})
	}
}
