package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"jejubot/app/agent"
	"jejubot/app/api"
	"jejubot/app/middleware"
	"jejubot/model"
	"jejubot/retrieval"
	"jejubot/store"
)

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

type Server struct {
	listenAddr string
	logger     *slog.Logger
}

func NewServer(addr string) *Server {
	return &Server{
		listenAddr: addr,
		logger:     slog.Default(),
	}
}

func (s *Server) Stop() {
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()

	// Credentials and model ids are checked here, before the server
	// accepts any traffic.
	embedder, err := model.NewEmbedder()
	if err != nil {
		log.Fatal("embedder init failed: ", err)
	}
	llm, err := model.NewOllamaClient()
	if err != nil {
		log.Fatal("llm init failed: ", err)
	}
	s.logger.Info("language model ready", "model", llm.Model())

	port, _ := strconv.Atoi(os.Getenv("PG_PORT"))
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("PG_HOST"), port, os.Getenv("PG_USER"), os.Getenv("PG_PASS"), os.Getenv("PG_DB_NAME"))
	pool, err := store.NewPostgresStore(ctx, connStr)
	if err != nil {
		log.Fatal("error to connect to Postgres database: ", err)
	}

	collection := os.Getenv("COLLECTION")
	if collection == "" {
		collection = "visitjeju"
	}
	if count, err := pool.Count(ctx, collection); err != nil {
		s.logger.Warn("could not inspect collection", "collection", collection, "error", err)
	} else if count == 0 {
		s.logger.Warn("collection is empty, run the loader first; answers will be context-free", "collection", collection)
	} else {
		s.logger.Info("collection ready", "collection", collection, "documents", count)
	}

	promptFile := os.Getenv("PROMPT_FILE")
	if promptFile == "" {
		promptFile = "prompt.txt"
	}

	retriever := retrieval.New(embedder, pool, collection)
	chatAgent := agent.New(llm, retriever, promptFile)

	var (
		app           = fiber.New(config)
		checkHandler  = api.NewCheckHandler(pool)
		chatHandler   = api.NewChatHandler(chatAgent)
		promptHandler = api.NewPromptHandler(promptFile)
		check         = app.Group("/check")
		apiv1         = app.Group("/api/v1")
	)

	app.Use(middleware.PlugStatic("/api"))
	app.Static("/", "./static")

	check.Get("/healthy", checkHandler.HandleHealthy)
	apiv1.Post("/chat", chatHandler.HandleChat)
	apiv1.Get("/prompt", promptHandler.HandleGetPrompt)
	apiv1.Put("/prompt", promptHandler.HandleSetPrompt)

	err = app.Listen(s.listenAddr)
	if err != nil {
		s.logger.Error("error to start server", "error", err.Error())
		return
	}
}
