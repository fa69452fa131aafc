package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/scrimlol/scrim-system/handlers"
	"github.com/scrimlol/scrim-system/middleware"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	roomHandler *handlers.RoomHandler,
	teamHandler *handlers.TeamHandler,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Post("/auth/signup", authHandler.SignUpHandler)
	router.Post("/auth/signin", authHandler.SignInHandler)

	router.Route("/rooms", func(r chi.Router) {
		r.Get("/", roomHandler.ListRoomsHandler)
		r.Get("/{roomID}", roomHandler.GetRoomHandler)
		r.Get("/{roomID}/teams", teamHandler.ListRoomTeamsHandler)
		r.Get("/{roomID}/bracket", bracketHandler.GetBracketHandler)
		r.Get("/{roomID}/matches", matchHandler.ListRoomMatchesHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/", roomHandler.CreateRoomHandler)
			r.Patch("/{roomID}/status", roomHandler.UpdateRoomStatusHandler)
			r.Post("/{roomID}/teams", teamHandler.CreateTeamHandler)
			r.Post("/{roomID}/bracket", bracketHandler.GenerateBracketHandler)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/{teamID}/logo", teamHandler.UploadTeamLogoHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/{matchID}/start", matchHandler.StartMatchHandler)
			r.Post("/{matchID}/result", matchHandler.ReportResultHandler)
		})
	})

	router.Get("/ws/rooms/{roomID}", webSocketHandler.JoinRoomHandler)
}
