package adminauth

import (
	"encoding/json"
	"strings"
	"time"
)

// UserRecord is the persisted shape of an account. It is stored as a
// JSON document in the record store under UserKey(username).
type UserRecord struct {
	Username       string     `json:"username"`
	HashedPassword string     `json:"hashedPassword"`
	Role           UserRole   `json:"role"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLogin      *time.Time `json:"lastLogin"`
}

// UserKey returns the record store key for a username. Usernames are
// unique case insensitively, so the key is always lowercased.
func UserKey(username string) string {
	return "user:" + strings.ToLower(username)
}

// MarshalRecord serializes a user record for storage.
func MarshalRecord(user *UserRecord) (string, error) {
	b, err := json.Marshal(user)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalRecord deserializes a stored user record.
func UnmarshalRecord(value string) (*UserRecord, error) {
	user := &UserRecord{}
	if err := json.Unmarshal([]byte(value), user); err != nil {
		return nil, err
	}
	return user, nil
}

type authIdentity struct {
	username string
	role     string
}

func (a authIdentity) ID() string       { return a.username }
func (a authIdentity) Username() string { return a.username }
func (a authIdentity) Role() string     { return a.role }

// NewIdentity builds an Identity from a username and role.
func NewIdentity(username, role string) Identity {
	return authIdentity{username: username, role: role}
}

// IdentityFromRecord adapts a stored user record to the Identity interface.
func IdentityFromRecord(user *UserRecord) Identity {
	return authIdentity{username: user.Username, role: user.Role}
}
