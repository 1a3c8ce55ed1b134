package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/DreamCats/docrag/internal/rag"
)

func main() {
	// a local .env can supply DOCRAG_* overrides and API keys
	_ = godotenv.Load()

	os.Exit(rag.Run(os.Args))
}
