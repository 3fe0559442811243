package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Abdulla-Zaid/GulfLimo/internal/auth"
	"github.com/Abdulla-Zaid/GulfLimo/internal/config"
	"github.com/Abdulla-Zaid/GulfLimo/internal/db"
	"github.com/Abdulla-Zaid/GulfLimo/internal/handlers"
	"github.com/Abdulla-Zaid/GulfLimo/internal/models"
	"github.com/Abdulla-Zaid/GulfLimo/internal/pdf"
	"github.com/Abdulla-Zaid/GulfLimo/internal/services"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	dbConn, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := runMigrations(cfg); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if *migrateOnlyFlag {
		log.Println("Migrations completed successfully")
		return
	}

	// Verify on each authenticated request that the session's user still exists.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		dbConn.Model(&models.User{}).Where("id = ?", uid).Count(&count)
		return count > 0
	})

	invoiceSvc := services.NewInvoiceService(dbConn, cfg.NumberPrefix)

	var engine pdf.Engine
	if wk, err := pdf.NewWKEngine(); err != nil {
		if errors.Is(err, pdf.ErrUnavailable) {
			log.Printf("PDF conversion disabled: %v", err)
		} else {
			log.Fatalf("PDF engine: %v", err)
		}
	} else {
		engine = wk
	}
	renderer := pdf.NewDocumentRenderer(filepath.Join("templates", "invoice_pdf.html"))

	ah := handlers.NewAuthHandler(dbConn)
	ih := handlers.NewInvoiceHandler(invoiceSvc, engine, renderer, cfg.LogoPath(), cfg.BackgroundPath())
	appHandler := NewApp(dbConn, ah, ih)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      withLogging(appHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (env=%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// runMigrations applies SQL migrations when MIGRATIONS=1 (postgres
// deployments); the AutoMigrate pass afterwards is a no-op for schemas
// they already created.
func runMigrations(cfg config.Config) error {
	if !config.ParseBool("MIGRATIONS", false) {
		return nil
	}
	return db.RunSQLMigrations(cfg.DatabaseDSN)
}

// withLogging adds request logging with a per-request id.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %s", reqID[:8], r.Method, r.URL.Path, time.Since(start))
	})
}
