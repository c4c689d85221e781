package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/desertthunder/learndash/internal/models"
)

// Keys written by the session manager.
const (
	KeyRememberedUsername = "rememberedUsername"
	KeyRememberMe         = "rememberMe"
	KeyUserFavorites      = "userFavorites"
	KeyUser               = "user"
	KeyUserSession        = "userSession"
)

const rememberFlag = "true"

// LoadRemembered returns the remembered identifier.
//
// ok is true only when both the identifier and the "true" flag are stored.
func LoadRemembered(ctx context.Context, s Store) (identifier string, ok bool, err error) {
	identifier, hasIdentifier, err := s.Get(ctx, KeyRememberedUsername)
	if err != nil {
		return "", false, err
	}
	flag, hasFlag, err := s.Get(ctx, KeyRememberMe)
	if err != nil {
		return "", false, err
	}
	if !hasIdentifier || identifier == "" || !hasFlag || flag != rememberFlag {
		return "", false, nil
	}
	return identifier, true, nil
}

// SaveRemembered stores identifier together with the remember flag.
func SaveRemembered(ctx context.Context, s Store, identifier string) error {
	if err := s.Set(ctx, KeyRememberedUsername, identifier); err != nil {
		return err
	}
	return s.Set(ctx, KeyRememberMe, rememberFlag)
}

// ClearRemembered erases both remembered keys, attempting each even if the first fails.
func ClearRemembered(ctx context.Context, s Store) error {
	return errors.Join(
		s.Remove(ctx, KeyRememberedUsername),
		s.Remove(ctx, KeyRememberMe),
	)
}

// RememberFlagSet reports whether the remember flag is stored, independent of the identifier.
func RememberFlagSet(ctx context.Context, s Store) (bool, error) {
	flag, ok, err := s.Get(ctx, KeyRememberMe)
	if err != nil {
		return false, err
	}
	return ok && flag == rememberFlag, nil
}

// LoadFavorites decodes the favorites array. A missing key yields an empty set.
// A malformed value yields an empty set and a *[ParseError].
func LoadFavorites(ctx context.Context, s Store) (models.FavoriteSet, error) {
	raw, ok, err := s.Get(ctx, KeyUserFavorites)
	if err != nil {
		return models.NewFavoriteSet(), err
	}
	if !ok {
		return models.NewFavoriteSet(), nil
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return models.NewFavoriteSet(), &ParseError{Key: KeyUserFavorites, Value: raw, Err: err}
	}
	return models.NewFavoriteSet(ids...), nil
}

// SaveFavorites writes the whole set as an ascending JSON array.
func SaveFavorites(ctx context.Context, s Store, favorites models.FavoriteSet) error {
	data, err := json.Marshal(favorites.IDs())
	if err != nil {
		return err
	}
	return s.Set(ctx, KeyUserFavorites, string(data))
}

// SaveSignup stores rec under the signup key, replacing any earlier record.
func SaveSignup(ctx context.Context, s Store, rec models.SignupRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.Set(ctx, KeyUser, string(data))
}

// LoadSignup returns the stored signup record, if any.
func LoadSignup(ctx context.Context, s Store) (*models.SignupRecord, bool, error) {
	raw, ok, err := s.Get(ctx, KeyUser)
	if err != nil || !ok {
		return nil, false, err
	}

	var rec models.SignupRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, false, &ParseError{Key: KeyUser, Value: raw, Err: err}
	}
	return &rec, true, nil
}

// SaveSession records the handoff token of the logged-in user.
func SaveSession(ctx context.Context, s Store, token string) error {
	return s.Set(ctx, KeyUserSession, token)
}

// LoadSession returns the stored handoff token, if any.
func LoadSession(ctx context.Context, s Store) (string, bool, error) {
	return s.Get(ctx, KeyUserSession)
}

// RemoveSession erases the stored handoff token.
func RemoveSession(ctx context.Context, s Store) error {
	return s.Remove(ctx, KeyUserSession)
}
