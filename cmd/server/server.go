package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studybuddy/config"
	"studybuddy/db"
	"studybuddy/handlers"
	"studybuddy/services"
	"studybuddy/services/agent"
	"studybuddy/services/prompt"

	"github.com/gorilla/mux"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "studybuddy",
		Usage: "Study assistant chatbot backed by a hosted LLM",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the chat web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "port",
						Usage: "Port to listen on (overrides PORT)",
					},
				},
				Action: runServe,
			},
			{
				Name:   "modes",
				Usage:  "Print the study modes and their prompts",
				Action: runModes,
			},
		},
		DefaultCommand: "serve",
	}
}

func runModes(_ context.Context, cmd *cli.Command) error {
	for _, mode := range prompt.ModeInfos() {
		marker := " "
		if mode.Default {
			marker = "*"
		}
		fmt.Fprintf(cmd.Root().Writer, "%s %-18s %s\n", marker, mode.Label, mode.Prompt)
	}
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.String("port")
	}

	turnRepo, err := newTurnRepository(cfg)
	if err != nil {
		return err
	}
	defer turnRepo.Close()

	sessionRepo := db.NewInMemorySessionRepository()

	chatService := services.NewChatService(sessionRepo, turnRepo, agent.New, agent.Options{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	}, cfg.DefaultAPIKey)

	go chatService.RunSessionJanitor(ctx, cfg.SessionTTL)

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	handlers.NewChatHandler(chatService).RegisterRoutes(router)
	handlers.NewSchemaHandler().RegisterRoutes(router)
	handlers.NewPageHandler(cfg.DefaultAPIKey != "").RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] Server starting on port %s (provider %s, model %s)", cfg.Port, cfg.LLM.Provider, cfg.LLM.Model)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Printf("[INFO] Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newTurnRepository(cfg *config.Config) (db.TurnRepository, error) {
	if cfg.DatabaseURL == "" {
		log.Printf("[INFO] DB_URL not set, keeping turn stats in memory")
		return db.NewInMemoryTurnRepository(), nil
	}

	repo, err := db.NewPostgresTurnRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize turn database: %w", err)
	}
	return repo, nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
