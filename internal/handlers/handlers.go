package handlers

import (
	"StudySync/internal/config"
	"StudySync/internal/middleware"
	"StudySync/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// Services — сервисы, которые обслуживает HTTP-слой.
type Services struct {
	Users     *service.UserService
	Documents *service.DocumentService
	Decks     *service.DeckService
	Threads   *service.ThreadService
	Chat      *service.ChatService
}

// NewHandler разводящий для хендлеров
func NewHandler(
	services Services,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Encoding"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	chatHandler := NewChatHandler(services.Chat, logger)
	userHandler := NewUserHandler(services.Users, logger, config)
	studyHandler := NewStudyHandler(services.Documents, services.Decks, services.Users, logger)
	threadHandler := NewThreadHandler(services.Threads, logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// Chat routes
	r.Post("/api/chat", chatHandler.Chat)
	r.Get("/api/chat/status", chatHandler.Status)

	// User routes
	r.Post("/api/register", userHandler.Register)
	r.Post("/api/login", userHandler.Login)
	r.Post("/api/logout", userHandler.Logout)

	// Community
	r.Get("/api/threads", threadHandler.List)
	r.Get("/api/threads/{id}", threadHandler.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/api/user", userHandler.Current)
		r.Get("/api/leaderboard", userHandler.Leaderboard)

		r.Get("/api/documents", studyHandler.ListDocuments)
		r.Post("/api/documents", studyHandler.UploadDocument)
		r.Post("/api/documents/{id}/process", studyHandler.ProcessDocument)

		r.Get("/api/notes", studyHandler.ListNotes)
		r.Get("/api/notes/{id}", studyHandler.GetNote)

		r.Get("/api/flashcard-decks", studyHandler.ListDecks)
		r.Post("/api/flashcard-decks", studyHandler.CreateDeck)
		r.Post("/api/flashcard-decks/{id}/study", studyHandler.FinishStudy)

		r.Get("/api/flashcards/{deckId}", studyHandler.ListCards)
		r.Post("/api/flashcards/{deckId}", studyHandler.CreateCard)

		r.Post("/api/threads", threadHandler.Create)
		r.Post("/api/threads/{id}/replies", threadHandler.Reply)
	})

	return &Handler{Router: r}
}
