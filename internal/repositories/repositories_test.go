package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/nagavel/spottube/internal/models"
	"github.com/nagavel/spottube/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// A single connection keeps every statement on the same in-memory database.
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestAccountRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAccountRepository(db)
		account := models.NewAccount(0, "user@example.com", "spotify1", "access", "refresh")

		if err := repo.Create(account); err != nil {
			t.Fatalf("failed to create account: %v", err)
		}

		if account.ID() == "" {
			t.Error("account ID should be set after creation")
		}
		if account.Sequence() == 0 {
			t.Error("account sequence should be assigned")
		}
	})

	t.Run("CreateInvalid", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAccountRepository(db)

		if err := repo.Create(models.NewAccount(0, "", "spotify1", "access", "refresh")); err == nil {
			t.Error("expected validation error for missing email")
		}
		if err := repo.Create(models.NewAccount(0, "user@example.com", "spotify1", "access", "")); err == nil {
			t.Error("expected validation error for missing refresh token")
		}
	})

	t.Run("GetByEmail", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAccountRepository(db)
		account := models.NewAccount(0, "user@example.com", "spotify1", "access", "refresh")
		if err := repo.Create(account); err != nil {
			t.Fatalf("failed to create account: %v", err)
		}

		retrieved, err := repo.GetByEmail("user@example.com")
		if err != nil {
			t.Fatalf("failed to get account: %v", err)
		}
		if retrieved.ExternalID != "spotify1" || retrieved.RefreshToken != "refresh" {
			t.Errorf("unexpected account: %+v", retrieved)
		}

		if _, err := repo.GetByEmail("nobody@example.com"); !errors.Is(err, shared.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("UpsertByEmail", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAccountRepository(db)

		first := models.NewAccount(0, "user@example.com", "spotify1", "access1", "refresh1")
		if err := repo.UpsertByEmail(first); err != nil {
			t.Fatalf("first upsert failed: %v", err)
		}

		second := models.NewAccount(0, "user@example.com", "spotify1", "access2", "refresh2")
		if err := repo.UpsertByEmail(second); err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}

		stored, err := repo.List(nil)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(stored) != 1 {
			t.Fatalf("upsert should keep one row per email, got %d", len(stored))
		}
		if stored[0].AccessToken != "access2" || stored[0].RefreshToken != "refresh2" {
			t.Errorf("tokens not replaced: %+v", stored[0])
		}
	})

	t.Run("UpdateAccessToken", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAccountRepository(db)
		account := models.NewAccount(0, "user@example.com", "spotify1", "old", "refresh")
		if err := repo.Create(account); err != nil {
			t.Fatalf("failed to create account: %v", err)
		}

		if err := repo.UpdateAccessToken("user@example.com", "new"); err != nil {
			t.Fatalf("failed to update token: %v", err)
		}

		retrieved, _ := repo.GetByEmail("user@example.com")
		if retrieved.AccessToken != "new" {
			t.Errorf("expected new token, got %s", retrieved.AccessToken)
		}
		if retrieved.RefreshToken != "refresh" {
			t.Errorf("refresh token must survive an access token update: %s", retrieved.RefreshToken)
		}

		if err := repo.UpdateAccessToken("nobody@example.com", "new"); !errors.Is(err, shared.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("ListOrdersBySequence", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAccountRepository(db)
		for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			if err := repo.Create(models.NewAccount(0, email, "", "access", "refresh")); err != nil {
				t.Fatalf("failed to create %s: %v", email, err)
			}
		}

		stored, err := repo.List(nil)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(stored) != 3 {
			t.Fatalf("expected 3 accounts, got %d", len(stored))
		}
		for i := 1; i < len(stored); i++ {
			if stored[i-1].Sequence() > stored[i].Sequence() {
				t.Errorf("accounts out of sequence order: %d before %d", stored[i-1].Sequence(), stored[i].Sequence())
			}
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAccountRepository(db)
		account := models.NewAccount(0, "user@example.com", "spotify1", "access", "refresh")
		if err := repo.Create(account); err != nil {
			t.Fatalf("failed to create account: %v", err)
		}

		if err := repo.Delete(account.ID()); err != nil {
			t.Fatalf("failed to delete account: %v", err)
		}
		if _, err := repo.Get(account.ID()); !errors.Is(err, shared.ErrAccountNotFound) {
			t.Errorf("expected ErrAccountNotFound after delete, got %v", err)
		}
	})
}

func TestMatchRepository(t *testing.T) {
	t.Run("PutAndGet", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMatchRepository(db)
		candidate := models.MatchCandidate{
			VideoURL:     "https://www.youtube.com/watch?v=vid1",
			Title:        "Song A",
			ChannelTitle: "Chan",
			ThumbnailURL: "https://thumb/1",
		}

		if err := repo.Put("Song A Artist A", candidate); err != nil {
			t.Fatalf("failed to put match: %v", err)
		}

		cached, ok := repo.Get("Song A Artist A")
		if !ok {
			t.Fatal("expected cache hit")
		}
		if cached.VideoURL != candidate.VideoURL || cached.Title != candidate.Title {
			t.Errorf("unexpected cached candidate: %+v", cached)
		}
	})

	t.Run("Miss", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMatchRepository(db)
		if _, ok := repo.Get("never seen"); ok {
			t.Error("expected cache miss")
		}
	})

	t.Run("DuplicatePutIsIgnored", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewMatchRepository(db)
		first := models.MatchCandidate{VideoURL: "url1", Title: "First"}
		second := models.MatchCandidate{VideoURL: "url2", Title: "Second"}

		if err := repo.Put("query", first); err != nil {
			t.Fatalf("first put failed: %v", err)
		}
		if err := repo.Put("query", second); err != nil {
			t.Fatalf("duplicate put should not error: %v", err)
		}

		cached, ok := repo.Get("query")
		if !ok || cached.Title != "First" {
			t.Errorf("first entry should win: %+v", cached)
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "accounts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NextSequence(db, "accounts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected consecutive sequences, got %d then %d", first, second)
	}
}
