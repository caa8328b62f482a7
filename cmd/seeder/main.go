// cmd/seeder applies the schema and loads the starter product categories and
// demo customers. Safe to re-run; the seed files use ON CONFLICT DO NOTHING.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/threadline/wa-marketing-backend/internal/config"
	"github.com/threadline/wa-marketing-backend/internal/db"
)

func main() {
	cfg := config.MustLoad()

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close()

	files := []string{
		"migrations/001_schema.sql",
		"seed/categories.sql",
		"seed/customers.sql",
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		if _, err := database.Exec(string(content)); err != nil {
			log.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Applied: %s\n", file)
	}

	fmt.Println("Database seeding completed successfully!")
}
