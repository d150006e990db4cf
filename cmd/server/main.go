package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alextreichler/localcart/internal/config"
	"github.com/alextreichler/localcart/internal/handlers"
	"github.com/alextreichler/localcart/internal/store"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
)

func main() {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	// TextHandler for console readability; JSONHandler would suit production better.
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Init DB
	db, err := store.NewStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}

	if err := db.Migrate(cfg.MigrationsDir); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Setup Handlers
	authHandler := &handlers.AuthHandler{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
		UploadDir:    cfg.UploadDir,
	}
	profileHandler := &handlers.ProfileHandler{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
		UploadDir:    cfg.UploadDir,
	}
	catalogHandler := &handlers.CatalogHandler{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
	}
	cartHandler := &handlers.CartHandler{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
	}
	orderHandler := &handlers.OrderHandler{
		Store:        db,
		SessionStore: sessionStore,
		Templates:    templates,
	}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate Limiter for the auth POSTs
	rateLimiter := handlers.NewRateLimiter(10 * time.Second)

	// Public Routes
	mux.HandleFunc("/", authHandler.Home)
	mux.HandleFunc("/register", authHandler.RegisterGet)
	mux.HandleFunc("POST /register", rateLimiter.Middleware(authHandler.RegisterPost))
	mux.HandleFunc("/login", authHandler.LoginGet)
	mux.HandleFunc("POST /login", rateLimiter.Middleware(authHandler.LoginPost))
	mux.HandleFunc("/logout", authHandler.Logout)

	// Protected Routes
	mux.HandleFunc("/dashboard", authHandler.RequireUser(profileHandler.Dashboard))
	mux.HandleFunc("/profile", authHandler.RequireUser(profileHandler.ProfileGet))
	mux.HandleFunc("POST /profile", authHandler.RequireUser(profileHandler.ProfilePost))

	mux.HandleFunc("/services", authHandler.RequireUser(catalogHandler.Services))
	mux.HandleFunc("/menu", authHandler.RequireUser(catalogHandler.Menu))
	mux.HandleFunc("/get_item_details/{kind}/{id}", authHandler.RequireUser(catalogHandler.ItemDetails))

	mux.HandleFunc("POST /add_to_cart", authHandler.RequireUser(cartHandler.AddToCart))
	mux.HandleFunc("/cart", authHandler.RequireUser(cartHandler.ViewCart))
	mux.HandleFunc("POST /remove_from_cart", authHandler.RequireUser(cartHandler.RemoveFromCart))

	mux.HandleFunc("/checkout", authHandler.RequireUser(orderHandler.CheckoutForm))
	mux.HandleFunc("POST /place_order", authHandler.RequireUser(orderHandler.PlaceOrder))
	mux.HandleFunc("/order_history", authHandler.RequireUser(orderHandler.OrderHistory))

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
