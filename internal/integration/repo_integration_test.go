package integration

import (
	"context"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"mine_empire/internal/domain"
	"mine_empire/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func TestAccountRepository_GetOrCreate(t *testing.T) {
	db := testPool(t)
	repo := repository.NewAccountRepository(db)
	ctx := context.Background()

	a, err := repo.GetOrCreate(ctx, "0xintegration-account")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("expected assigned id")
	}

	again, err := repo.GetOrCreate(ctx, "0xintegration-account")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if again.ID != a.ID {
		t.Fatalf("expected stable id, got %d then %d", a.ID, again.ID)
	}
}

func TestDrillRepository_RoundTrip(t *testing.T) {
	db := testPool(t)
	repo := repository.NewDrillRepository(db)
	ctx := context.Background()

	rec := &repository.DrillRecord{
		Drill: domain.Drill{DrillID: 9001, TypeID: 1, Level: 2},
		Owner: "0xalice",
	}
	if err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rec.Approved = "0xmine-coal"
	if err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.GetByID(ctx, 9001)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Drill.Level != 2 || got.Owner != "0xalice" || got.Approved != "0xmine-coal" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestStakeRepository_RoundTrip(t *testing.T) {
	db := testPool(t)
	repo := repository.NewStakeRepository(db)
	ctx := context.Background()

	s := &domain.Stake{Account: "0xalice", Mine: "coal", DrillID: 9002, Timestamp: 1700000000}
	if err := repo.Upsert(ctx, s); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.Get(ctx, "coal", "0xalice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DrillID != 9002 || got.Timestamp != 1700000000 {
		t.Fatalf("unexpected stake: %+v", got)
	}

	if err := repo.UpsertUserLevel(ctx, "coal", "0xalice", 2); err != nil {
		t.Fatalf("upsert level: %v", err)
	}
	levels, err := repo.ListUserLevels(ctx)
	if err != nil {
		t.Fatalf("list levels: %v", err)
	}
	found := false
	for _, ul := range levels {
		if ul.Mine == "coal" && ul.Account == "0xalice" && ul.Level == 2 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected user level row")
	}

	if err := repo.Delete(ctx, "coal", "0xalice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "coal", "0xalice"); err == nil {
		t.Fatal("expected missing stake after delete")
	}
}

func TestBalanceRepository_BigAmounts(t *testing.T) {
	db := testPool(t)
	repo := repository.NewBalanceRepository(db)
	ctx := context.Background()

	// larger than uint64 to prove the numeric column round-trips
	amount, _ := new(big.Int).SetString("10215000000000000000000", 10)
	if err := repo.Set(ctx, "COAL", "0xalice", amount); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := repo.Get(ctx, "COAL", "0xalice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Cmp(amount) != 0 {
		t.Fatalf("expected %s got %s", amount, got)
	}
}

func TestEventRepository_AppendAndRead(t *testing.T) {
	db := testPool(t)
	repo := repository.NewEventRepository(db)
	ctx := context.Background()

	ev := &domain.MiningEvent{
		Account: "0xalice",
		Kind:    domain.EventCollected,
		Mine:    "coal",
		Amount:  "5000000000000000000",
		Details: map[string]interface{}{"note": "integration"},
	}
	if err := repo.Create(ctx, ev); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ev.ID == 0 {
		t.Fatal("expected assigned event id")
	}

	events, err := repo.GetByAccount(ctx, "0xalice", 10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected at least one event")
	}
	if events[0].Kind != domain.EventCollected && events[0].Account != "0xalice" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}
