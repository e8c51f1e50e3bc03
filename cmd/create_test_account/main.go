package main

import (
	"context"
	"flag"
	"log"
	"os"

	"mine_empire/internal/db"
	"mine_empire/internal/repository"
	"mine_empire/internal/service"
)

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	address := flag.String("address", "0xtester", "account address to create")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewAccountRepository(pool)
	ctx := context.Background()

	a, err := repo.GetOrCreate(ctx, *address)
	if err != nil {
		log.Fatalf("create account failed: %v", err)
	}
	log.Printf("account id=%d address=%s created_at=%v\n", a.ID, a.Address, a.CreatedAt)

	service.InitJWT(os.Getenv("JWT_SECRET"))
	token, err := service.GenerateJWT(a.Address)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
