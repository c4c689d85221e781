package models

import (
	"slices"
	"testing"
	"time"
)

func TestFavoriteSet(t *testing.T) {
	t.Run("dedupes on construction", func(t *testing.T) {
		set := NewFavoriteSet(3, 1, 3, 2)
		if got := set.IDs(); !slices.Equal(got, []int{1, 2, 3}) {
			t.Errorf("expected [1 2 3], got %v", got)
		}
	})

	t.Run("toggle twice restores membership", func(t *testing.T) {
		set := NewFavoriteSet(5)

		if set.Toggle(7) != true {
			t.Error("first toggle of absent id should add it")
		}
		if set.Toggle(7) != false {
			t.Error("second toggle should remove it")
		}
		if set.Has(7) || !set.Has(5) {
			t.Errorf("unexpected set contents %v", set.IDs())
		}
	})

	t.Run("clone is independent", func(t *testing.T) {
		set := NewFavoriteSet(1)
		clone := set.Clone()
		clone.Toggle(2)

		if set.Has(2) {
			t.Error("mutating the clone should not touch the original")
		}
	})
}

func TestPublicUser(t *testing.T) {
	rec := UserRecord{Identifier: "admin", Secret: "admin123", Role: RoleAdmin, DisplayName: "Admin User"}
	pub := rec.Public()

	if pub.Identifier != "admin" || pub.Role != RoleAdmin || pub.DisplayName != "Admin User" {
		t.Errorf("unexpected projection %+v", pub)
	}

	tt := []struct {
		name string
		want string
	}{
		{name: "Admin User", want: "AU"},
		{name: "john", want: "J"},
		{name: "Ana María López", want: "AM"},
		{name: "", want: ""},
	}
	for _, tc := range tt {
		if got := (PublicUser{DisplayName: tc.name}).Initials(); got != tc.want {
			t.Errorf("Initials(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCredential(t *testing.T) {
	tt := []struct {
		name    string
		cred    *Credential
		wantErr bool
	}{
		{name: "valid", cred: NewCredential(1, "alice", "hash", "Alice", RoleUser)},
		{name: "blank username", cred: NewCredential(1, "  ", "hash", "", RoleUser), wantErr: true},
		{name: "missing hash", cred: NewCredential(1, "alice", "", "", RoleUser), wantErr: true},
		{name: "bad role", cred: NewCredential(1, "alice", "hash", "", Role("root")), wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cred.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	t.Run("public falls back to username", func(t *testing.T) {
		cred := NewCredential(1, "alice", "hash", "", RoleUser)
		if cred.Public().DisplayName != "alice" {
			t.Errorf("expected username as display name, got %q", cred.Public().DisplayName)
		}
	})
}

func TestServerSession(t *testing.T) {
	sess := NewServerSession("alice", time.Hour)
	now := time.Now()

	if !sess.Active(now) {
		t.Error("fresh session should be active")
	}
	if sess.Active(now.Add(2 * time.Hour)) {
		t.Error("session should expire after ttl")
	}

	revoked := now
	sess.SetRevokedAt(&revoked)
	if sess.Active(now) {
		t.Error("revoked session should not be active")
	}

	if err := NewServerSession("", time.Hour).Validate(); err == nil {
		t.Error("expected validation error without username")
	}
}
