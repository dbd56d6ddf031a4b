package main

import (
	"flag"
	"log"

	"draw-guess/internal/config"
	"draw-guess/internal/db"
	"draw-guess/internal/words"
)

func main() {
	filePath := flag.String("file", "words.csv", "path to a .csv or .json word list")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	read, err := words.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("failed to read words: %v", err)
	}
	list, err := words.New(read)
	if err != nil {
		log.Fatalf("no usable words in %s: %v", *filePath, err)
	}

	inserted, err := db.LoadWords(conn, list.Words())
	if err != nil {
		log.Fatalf("failed to load words: %v", err)
	}
	log.Printf("loaded words inserted=%d skipped=%d", inserted, list.Len()-inserted)
}
