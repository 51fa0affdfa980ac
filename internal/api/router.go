package api

import (
	"database/sql"
	"net/http"

	"github.com/AbdulMoizz31/lost-found-portal/internal/catalog"
	"github.com/AbdulMoizz31/lost-found-portal/internal/events"
	"github.com/AbdulMoizz31/lost-found-portal/internal/model"
	"github.com/AbdulMoizz31/lost-found-portal/internal/storage"
	"github.com/AbdulMoizz31/lost-found-portal/internal/uploads"
)

// Config bundles the dependencies the router needs.
type Config struct {
	DB                 *sql.DB
	JWTSecret          string
	AllowedEmailDomain string
	Catalog            *catalog.Store
	Uploads            *uploads.Manager
	Blobs              storage.BlobStore
	Events             *events.Publisher
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: cfg.DB, JWTSecret: cfg.JWTSecret, AllowedEmailDomain: cfg.AllowedEmailDomain}
	itemsHandler := &ItemsHandler{DB: cfg.DB, Catalog: cfg.Catalog, Uploads: cfg.Uploads, Blobs: cfg.Blobs, Events: cfg.Events}
	uploadsHandler := &UploadsHandler{Uploads: cfg.Uploads}
	claimsHandler := &ClaimsHandler{DB: cfg.DB, Uploads: cfg.Uploads, Blobs: cfg.Blobs, Events: cfg.Events}
	chatsHandler := &ChatsHandler{DB: cfg.DB}

	authMW := AuthMiddleware(cfg.JWTSecret, cfg.DB)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: signup and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Account.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Catalog.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("POST /api/items/reload", authMW(http.HandlerFunc(itemsHandler.Reload)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("GET /api/items/{id}/images/{n}", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Staged uploads.
	mux.Handle("POST /api/uploads", authMW(http.HandlerFunc(uploadsHandler.Create)))
	mux.Handle("GET /api/uploads/{id}", authMW(http.HandlerFunc(uploadsHandler.Get)))
	mux.Handle("DELETE /api/uploads/{id}", authMW(http.HandlerFunc(uploadsHandler.Delete)))

	// Claims: submit (any user), review (admin).
	mux.Handle("POST /api/claims", authMW(http.HandlerFunc(claimsHandler.Create)))
	mux.Handle("GET /api/claims", authMW(requireAdmin(http.HandlerFunc(claimsHandler.List))))
	mux.Handle("GET /api/claims/{id}", authMW(http.HandlerFunc(claimsHandler.Get)))
	mux.Handle("PUT /api/claims/{id}/status", authMW(requireAdmin(http.HandlerFunc(claimsHandler.SetStatus))))
	mux.Handle("GET /api/claims/{id}/images/{n}", authMW(requireAdmin(http.HandlerFunc(claimsHandler.GetImage))))

	// Chats.
	mux.Handle("POST /api/chats", authMW(http.HandlerFunc(chatsHandler.Start)))
	mux.Handle("GET /api/chats/{id}/messages", authMW(http.HandlerFunc(chatsHandler.Messages)))
	mux.Handle("POST /api/chats/{id}/messages", authMW(http.HandlerFunc(chatsHandler.Post)))

	return RecoverMiddleware(LoggingMiddleware(mux))
}
