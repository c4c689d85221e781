package repositories

import (
	"database/sql"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "credentials")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without a sequence")
	}
}

func TestCredentialRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCredentialRepository(db)
		cred := models.NewCredential(0, "alice", "hash", "Alice", models.RoleUser)

		if err := repo.Create(cred); err != nil {
			t.Fatalf("failed to create credential: %v", err)
		}

		if cred.ID() == "" {
			t.Error("credential ID should be set after creation")
		}
		if cred.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", cred.Sequence())
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCredentialRepository(db)
		cred := models.NewCredential(0, "alice", "hash", "Alice", models.RoleAdmin)

		if err := repo.Create(cred); err != nil {
			t.Fatalf("failed to create credential: %v", err)
		}

		retrieved, err := repo.Get(cred.ID())
		if err != nil {
			t.Fatalf("failed to get credential: %v", err)
		}

		if retrieved.Username() != "alice" || retrieved.Role() != models.RoleAdmin || retrieved.DisplayName() != "Alice" {
			t.Errorf("unexpected credential %+v", retrieved.Public())
		}
	})

	t.Run("GetByUsername is exact", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCredentialRepository(db)
		if err := repo.Create(models.NewCredential(0, "alice", "hash", "", models.RoleUser)); err != nil {
			t.Fatalf("failed to create credential: %v", err)
		}

		if _, err := repo.GetByUsername("alice"); err != nil {
			t.Errorf("expected to find alice: %v", err)
		}
		if _, err := repo.GetByUsername("ALICE"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound for different case, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCredentialRepository(db)
		cred := models.NewCredential(0, "alice", "hash", "Alice", models.RoleUser)
		if err := repo.Create(cred); err != nil {
			t.Fatalf("failed to create credential: %v", err)
		}

		cred.SetPasswordHash("new-hash")
		cred.SetRole(models.RoleAdmin)
		if err := repo.Update(cred); err != nil {
			t.Fatalf("failed to update credential: %v", err)
		}

		retrieved, err := repo.GetByUsername("alice")
		if err != nil {
			t.Fatalf("failed to get credential: %v", err)
		}
		if retrieved.PasswordHash() != "new-hash" || retrieved.Role() != models.RoleAdmin {
			t.Error("update did not persist")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCredentialRepository(db)
		cred := models.NewCredential(0, "alice", "hash", "", models.RoleUser)
		if err := repo.Create(cred); err != nil {
			t.Fatalf("failed to create credential: %v", err)
		}

		if err := repo.Delete(cred.ID()); err != nil {
			t.Fatalf("failed to delete credential: %v", err)
		}

		if _, err := repo.Get(cred.ID()); err == nil {
			t.Error("expected error when getting deleted credential")
		}

		again := models.NewCredential(0, "alice", "hash2", "", models.RoleUser)
		if err := repo.Create(again); err != nil {
			t.Errorf("username should be reusable after soft delete: %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewCredentialRepository(db)
		for _, c := range []*models.Credential{
			models.NewCredential(0, "carol", "h", "", models.RoleUser),
			models.NewCredential(0, "admin", "h", "", models.RoleAdmin),
			models.NewCredential(0, "bob", "h", "", models.RoleUser),
		} {
			if err := repo.Create(c); err != nil {
				t.Fatalf("failed to create credential: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list credentials: %v", err)
		}

		names := []string{}
		for _, c := range all {
			names = append(names, c.Username())
		}
		if !slices.Equal(names, []string{"carol", "admin", "bob"}) {
			t.Errorf("expected sequence order, got %v", names)
		}

		admins, err := repo.List(map[string]any{"role": models.RoleAdmin})
		if err != nil {
			t.Fatalf("failed to list admins: %v", err)
		}
		if len(admins) != 1 || admins[0].Username() != "admin" {
			t.Errorf("expected only admin, got %d rows", len(admins))
		}

		byName, err := repo.List(map[string]any{"username": "bob"})
		if err != nil {
			t.Fatalf("failed to list by username: %v", err)
		}
		if len(byName) != 1 {
			t.Errorf("expected one row for bob, got %d", len(byName))
		}
	})
}

func TestKeyValueRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewKeyValueRepository(db)

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := repo.Get("p1", "rememberMe")
		if err != nil || ok {
			t.Errorf("expected absent key, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("set and overwrite", func(t *testing.T) {
		if err := repo.Set("p1", "rememberMe", "true"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		if err := repo.Set("p1", "rememberMe", "false"); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}

		v, ok, err := repo.Get("p1", "rememberMe")
		if err != nil || !ok || v != "false" {
			t.Errorf("expected false, got %q ok=%v err=%v", v, ok, err)
		}
	})

	t.Run("namespaces are isolated", func(t *testing.T) {
		if err := repo.Set("p2", "userFavorites", "[1]"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}
		if _, ok, _ := repo.Get("p1", "userFavorites"); ok {
			t.Error("p1 should not see p2's key")
		}

		keys, err := repo.Keys("p1")
		if err != nil {
			t.Fatalf("failed to list keys: %v", err)
		}
		if !slices.Equal(keys, []string{"rememberMe"}) {
			t.Errorf("unexpected keys %v", keys)
		}
	})

	t.Run("delete and clear", func(t *testing.T) {
		if err := repo.Delete("p1", "rememberMe"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if err := repo.Delete("p1", "rememberMe"); err != nil {
			t.Errorf("deleting an absent key should succeed: %v", err)
		}

		if err := repo.Clear("p2"); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		keys, _ := repo.Keys("p2")
		if len(keys) != 0 {
			t.Errorf("expected empty namespace, got %v", keys)
		}
	})
}

func TestServerSessionRepository(t *testing.T) {
	t.Run("create and get active", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewServerSessionRepository(db)
		sess := models.NewServerSession("alice", time.Hour)
		if err := repo.Create(sess); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		got, err := repo.GetActive(sess.ID())
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if got.Username() != "alice" {
			t.Errorf("expected alice, got %s", got.Username())
		}
	})

	t.Run("revoked session is inactive", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewServerSessionRepository(db)
		sess := models.NewServerSession("alice", time.Hour)
		if err := repo.Create(sess); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if err := repo.Revoke(sess.ID()); err != nil {
			t.Fatalf("failed to revoke: %v", err)
		}
		if _, err := repo.GetActive(sess.ID()); !errors.Is(err, shared.ErrSessionExpired) {
			t.Errorf("expected ErrSessionExpired, got %v", err)
		}
		if err := repo.Revoke(sess.ID()); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("second revoke should report not found, got %v", err)
		}
	})

	t.Run("expired session is inactive", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewServerSessionRepository(db)
		sess := models.NewServerSession("alice", time.Hour)
		sess.SetCreatedAt(time.Now().Add(-2 * time.Hour))
		sess.SetExpiresAt(time.Now().Add(-time.Hour))
		if err := repo.Create(sess); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if _, err := repo.GetActive(sess.ID()); !errors.Is(err, shared.ErrSessionExpired) {
			t.Errorf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("RevokeUser", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewServerSessionRepository(db)
		for range 2 {
			if err := repo.Create(models.NewServerSession("alice", time.Hour)); err != nil {
				t.Fatalf("failed to create session: %v", err)
			}
		}
		if err := repo.Create(models.NewServerSession("bob", time.Hour)); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		n, err := repo.RevokeUser("alice")
		if err != nil {
			t.Fatalf("failed to revoke: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 revoked sessions, got %d", n)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		if _, err := NewServerSessionRepository(db).Get("nope"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
