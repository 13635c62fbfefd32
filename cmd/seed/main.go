// seed wipes the subscribers table and inserts example rows into the
// local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cozmicai/waitlist/internal/domain"
	"github.com/cozmicai/waitlist/internal/infrastructure/postgres"
)

type subscriberSpec struct {
	email string
	name  string
}

var subscribers = []subscriberSpec{
	{"priya@example.com", "Priya K"},
	{"arjun@example.com", "Arjun M"},
	{"test@example.com", "Test User"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewSubscriberRepository(pool)

	deleted, err := repo.DeleteAll(ctx)
	if err != nil {
		log.Fatalf("clear subscribers: %v", err)
	}

	for _, spec := range subscribers {
		name := spec.name
		_, err := repo.Insert(ctx, &domain.Subscriber{
			Email:  spec.email,
			Name:   &name,
			Source: domain.SourceSeed,
		})
		if err != nil {
			log.Fatalf("insert subscriber %s: %v", spec.email, err)
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Removed:  %d existing subscribers\n", deleted)
	fmt.Printf("  Created:  %d subscribers (source=%s, unverified, no token)\n", len(subscribers), domain.SourceSeed)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — sign up (re-signup refreshes the token for seeded rows):")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/subscribe \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"name\":\"%s\"}'\n", subscribers[0].email, subscribers[0].name)
	fmt.Println()
	fmt.Println("    # In ENV=local the mail payload lands in the server log; copy the token.")
	fmt.Println()
	fmt.Println("  Step 2 — confirm:")
	fmt.Println()
	fmt.Println("    curl -s 'http://localhost:8080/subscribe/confirm?token=TOKEN'")
	fmt.Println("    # → {\"ok\":true,\"verified\":true}")
	fmt.Println()
	fmt.Println("  Step 3 — confirm again with the same token:")
	fmt.Println()
	fmt.Println("    # → {\"ok\":false,\"error\":\"Invalid token\"}  (tokens are single-use)")
}
