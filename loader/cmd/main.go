package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"jejubot/loader/service"
	"jejubot/model"
	"jejubot/store"
)

func init() {
	mustLoadEnvVariables()
}

func main() {
	ctx := context.Background()

	// Setup failures abort the run; everything past this point is
	// logged and skipped per record or per batch.
	embedder, err := model.NewEmbedder()
	if err != nil {
		log.Fatal("embedder init failed: ", err)
	}

	port, _ := strconv.Atoi(os.Getenv("PG_PORT"))
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("PG_HOST"), port, os.Getenv("PG_USER"), os.Getenv("PG_PASS"), os.Getenv("PG_DB_NAME"))
	pool, err := store.NewPostgresStore(ctx, connStr)
	if err != nil {
		log.Fatal("error to connect to Postgres database: ", err)
	}
	defer pool.Close()

	cfg := service.Config{
		DataDir:    envOr("DATA_DIR", "data"),
		Collection: envOr("COLLECTION", "visitjeju"),
		Dim:        envInt("EMBEDDING_DIM", 4096),
		BatchSize:  envInt("BATCH_SIZE", 100),
	}

	report, err := service.New(pool, embedder, cfg).Run(ctx)
	if err != nil {
		log.Fatal("ingestion failed: ", err)
	}

	fmt.Printf("Ingestion finished: %d records stored, %d skipped, %d failed batches (%v)\n",
		report.Processed, report.Skipped, report.FailedBatches, report.Elapsed)
}

func mustLoadEnvVariables() {
	err := godotenv.Load()
	if err != nil {
		log.Println("no .env file found, using environment")
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
