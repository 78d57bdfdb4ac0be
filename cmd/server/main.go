// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/decisiondeft/decision-deft/internal/config"
	"github.com/decisiondeft/decision-deft/internal/handlers"
	"github.com/decisiondeft/decision-deft/internal/middleware"
	"github.com/decisiondeft/decision-deft/internal/services"
	"github.com/decisiondeft/decision-deft/internal/services/ai"
	"github.com/decisiondeft/decision-deft/internal/services/chat"
	"github.com/decisiondeft/decision-deft/internal/storage"
	"github.com/decisiondeft/decision-deft/internal/store"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("decision_deft")

	db, err := gorm.Open(sqlite.Open(cfg.StoragePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	// --- Storage & Store ---
	adapter, err := storage.NewSnapshotAdapter(db, logger)
	if err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}
	conversationStore := store.New(adapter, logger)

	// --- Chat Client ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.GeminiAPIKey
	aiConfig.BaseURL = cfg.GeminiBaseURL
	aiConfig.Model = cfg.ChatModel
	if err := aiConfig.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid AI configuration: %v", err)
	}
	provider := ai.NewOpenAIProvider(aiConfig)

	orchestrator := chat.NewOrchestrator(conversationStore, provider, logger)

	// --- Handlers ---
	chatHandler := handlers.NewChatHandler(conversationStore, orchestrator)
	pageHandler := handlers.NewPageHandler()

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.Logging(logger))

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.HandleFunc("/", pageHandler.ShowChatPage).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", chatHandler.GetState).Methods("GET")
	api.HandleFunc("/mode", chatHandler.SetMode).Methods("PUT")
	api.HandleFunc("/conversations", chatHandler.CreateConversation).Methods("POST")
	api.HandleFunc("/conversations/{id}/select", chatHandler.SelectConversation).Methods("POST")
	api.HandleFunc("/conversations/{id}", chatHandler.DeleteConversation).Methods("DELETE")
	api.HandleFunc("/conversations/{id}/messages", chatHandler.GetMessages).Methods("GET")
	api.HandleFunc("/conversations/{id}/messages", chatHandler.SendMessage).Methods("POST")
	api.HandleFunc("/conversations/{id}/export", chatHandler.ExportConversation).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageHandler.ShowErrorPage(w, "404", "Page Not Found", "The page you are looking for does not exist.")
	})

	// --- Server Configuration ---
	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("==================================================")
	log.Printf("Decision Deft - AI decision assistant")
	log.Printf("Server starting on port %s", port)
	log.Printf("Chat interface: http://localhost%s/", port)
	log.Printf("==================================================")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
