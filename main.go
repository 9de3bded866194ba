package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"tinigom/pkg/quotes"
	"tinigom/storage"
)

func main() {
	// Auto-load ./.env if present before reading vars. Existing env wins.
	_ = godotenv.Load()

	// Amounts serialize as JSON numbers, matching the API contract.
	decimal.MarshalJSONWithoutQuotes = true

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	store, err := storage.Open(dsn)
	if err != nil {
		log.Fatal("failed to open storage:", err)
	}

	// Support a lightweight migrate command: `./tinigom migrate`
	// Open already ran AutoMigrate and seeding, so just exit.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		log.Println("migration and seeding completed")
		return
	}

	var gen quotes.Generator
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		g, err := quotes.NewGeminiGenerator(context.Background(), key)
		if err != nil {
			log.Printf("quote generation disabled: %v", err)
		} else {
			defer g.Close()
			gen = g
		}
	} else {
		log.Println("GEMINI_API_KEY not set; motivational quotes degrade to the fallback text")
	}

	mode := quotes.ParseMode(os.Getenv("QUOTE_MODE"))
	srv := NewServer(store, quotes.NewService(store, gen, mode))

	r := gin.Default()
	srv.Routes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal("server exited:", err)
	}
}
