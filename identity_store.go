package adminauth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// IdentityStore adapts a RecordStore to identity lookups and writes.
// It owns key naming, case folding, JSON (de)serialization, uniqueness,
// and the role assignment policy.
type IdentityStore struct {
	store     RecordStore
	allowlist AdminAllowlist
	logger    Logger
}

// NewIdentityStore creates an identity store over a record store.
func NewIdentityStore(store RecordStore) *IdentityStore {
	return &IdentityStore{
		store:     store,
		allowlist: AdminAllowlist{},
		logger:    defLogger{},
	}
}

// WithLogger sets the logger.
func (s *IdentityStore) WithLogger(logger Logger) *IdentityStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithAdminAllowlist sets the usernames eligible for the admin role.
func (s *IdentityStore) WithAdminAllowlist(allowlist AdminAllowlist) *IdentityStore {
	if allowlist != nil {
		s.allowlist = allowlist
	}
	return s
}

// Allowlist exposes the configured admin allowlist.
func (s *IdentityStore) Allowlist() AdminAllowlist {
	return s.allowlist
}

// GetUser fetches a user record by username, case insensitively.
func (s *IdentityStore) GetUser(ctx context.Context, username string) (*UserRecord, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	value, found, err := s.store.Get(ctx, UserKey(username))
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "identity store read failed")
	}

	if !found {
		return nil, ErrIdentityNotFound
	}

	user, err := UnmarshalRecord(value)
	if err != nil {
		s.logger.Error("IdentityStore found corrupt record", "username", strings.ToLower(username), "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "identity record is corrupt")
	}

	return user, nil
}

// CreateUser persists a new user record. The write is a single
// conditional put, so a duplicate username (any casing) yields
// ErrUsernameTaken with no race window.
func (s *IdentityStore) CreateUser(ctx context.Context, user *UserRecord) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}

	value, err := MarshalRecord(user)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to serialize user record")
	}

	inserted, err := s.store.PutIfAbsent(ctx, UserKey(user.Username), value)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "identity store write failed")
	}

	if !inserted {
		return ErrUsernameTaken
	}

	return nil
}

// SaveUser overwrites an existing user record.
func (s *IdentityStore) SaveUser(ctx context.Context, user *UserRecord) error {
	if s.store == nil {
		return ErrStoreUnavailable
	}

	value, err := MarshalRecord(user)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to serialize user record")
	}

	if err := s.store.Put(ctx, UserKey(user.Username), value); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "identity store write failed")
	}

	return nil
}

// TouchLastLogin records a successful login time. Best effort: the
// timestamp is informational and may lose a concurrent write.
func (s *IdentityStore) TouchLastLogin(ctx context.Context, user *UserRecord, at time.Time) error {
	user.LastLogin = &at
	return s.SaveUser(ctx, user)
}

// SeedBootstrapUser inserts the initial credential if no record exists
// under that username yet. Boot-time seeding keeps login free of any
// special-case lookup path.
func (s *IdentityStore) SeedBootstrapUser(ctx context.Context, username, password string, role UserRole) (bool, error) {
	if s.store == nil {
		return false, ErrStoreUnavailable
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	if !IsValidRole(role) {
		role = RoleEditor
	}

	user := &UserRecord{
		Username:       username,
		HashedPassword: hash,
		Role:           role,
		CreatedAt:      timeNow().UTC(),
	}

	value, err := MarshalRecord(user)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to serialize bootstrap record")
	}

	inserted, err := s.store.PutIfAbsent(ctx, UserKey(username), value)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryOperation, "identity store write failed")
	}

	if inserted {
		s.logger.Info("IdentityStore seeded bootstrap user", "username", strings.ToLower(username), "role", role)
	}

	return inserted, nil
}

// VerifyIdentity satisfies the IdentityProvider interface. Unknown
// usernames and wrong passwords both surface ErrAuthenticationFailed.
func (s *IdentityStore) VerifyIdentity(ctx context.Context, username, password string) (Identity, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if !VerifyPassword(password, user.HashedPassword) {
		return nil, ErrAuthenticationFailed
	}

	return IdentityFromRecord(user), nil
}

// FindIdentityByUsername satisfies the IdentityProvider interface.
func (s *IdentityStore) FindIdentityByUsername(ctx context.Context, username string) (Identity, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return IdentityFromRecord(user), nil
}
