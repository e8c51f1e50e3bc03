package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Lists the SQL migrations and, with -apply, executes them in filename
// order against DATABASE_URL. Statements are idempotent (IF NOT EXISTS),
// so re-running is safe.
func main() {
	dir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	apply := flag.Bool("apply", false, "execute the migrations instead of listing them")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("read %s: %v", *dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if !*apply {
		for _, name := range names {
			log.Println("pending:", name)
		}
		return
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	for _, name := range names {
		sql, err := os.ReadFile(filepath.Join(*dir, name))
		if err != nil {
			log.Fatalf("read %s: %v", name, err)
		}
		if _, err := db.Exec(context.Background(), string(sql)); err != nil {
			log.Fatalf("apply %s: %v", name, err)
		}
		log.Println("applied:", name)
	}
}
