package main

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/Abdulla-Zaid/GulfLimo/internal/auth"
	"github.com/Abdulla-Zaid/GulfLimo/internal/handlers"
	"github.com/Abdulla-Zaid/GulfLimo/internal/models"
	"github.com/Abdulla-Zaid/GulfLimo/internal/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux *http.ServeMux
	db  *gorm.DB

	authHandler    *handlers.AuthHandler
	invoiceHandler *handlers.InvoiceHandler
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, ah *handlers.AuthHandler, ih *handlers.InvoiceHandler) *App {
	app := &App{
		mux:            http.NewServeMux(),
		db:             db,
		authHandler:    ah,
		invoiceHandler: ih,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth.Middleware(a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// Public routes
	a.mux.HandleFunc("GET /login", a.authHandler.Login)
	a.mux.HandleFunc("POST /login", a.authHandler.Login)
	a.mux.HandleFunc("GET /signup", a.authHandler.Signup)
	a.mux.HandleFunc("POST /signup", a.authHandler.Signup)
	a.mux.HandleFunc("GET /logout", a.authHandler.Logout)
	a.mux.HandleFunc("POST /logout", a.authHandler.Logout)

	// Authenticated routes
	ih := a.invoiceHandler
	a.mux.Handle("GET /{$}", a.requireAuth(http.HandlerFunc(a.dashboard)))
	a.mux.Handle("GET /create/{$}", a.requireAuth(http.HandlerFunc(ih.New)))
	a.mux.Handle("POST /create/{$}", a.requireAuth(http.HandlerFunc(ih.Create)))
	a.mux.Handle("GET /invoice/{id}/{$}", a.requireAuth(http.HandlerFunc(ih.Detail)))
	a.mux.Handle("GET /invoice/{id}/edit/{$}", a.requireAuth(http.HandlerFunc(ih.Edit)))
	a.mux.Handle("POST /invoice/{id}/edit/{$}", a.requireAuth(http.HandlerFunc(ih.Update)))
	a.mux.Handle("GET /invoice/{id}/pdf/{$}", a.requireAuth(http.HandlerFunc(ih.PDF)))
	a.mux.Handle("GET /search/{$}", a.requireAuth(http.HandlerFunc(ih.Search)))

	// Static files
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

// requireAuth wraps a handler to require authentication.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

func (a *App) dashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var user models.User
	a.db.First(&user, userID)

	var invoiceCount int64
	a.db.Model(&models.Invoice{}).Count(&invoiceCount)

	var recent []models.Invoice
	a.db.Preload("Items").Order("created_at DESC").Limit(5).Find(&recent)

	view.Render(w, r, "dashboard.html", map[string]any{
		"User":           user,
		"InvoiceCount":   invoiceCount,
		"RecentInvoices": recent,
	})
}
