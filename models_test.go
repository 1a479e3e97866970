package adminauth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminauth "github.com/kalamiro/go-adminauth"
)

func TestUserKey(t *testing.T) {
	assert.Equal(t, "user:alice", adminauth.UserKey("alice"))
	assert.Equal(t, "user:alice", adminauth.UserKey("Alice"))
	assert.Equal(t, "user:alice", adminauth.UserKey("ALICE"))
}

func TestRecordSerialization(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	user := &adminauth.UserRecord{
		Username:       "Alice",
		HashedPassword: "aa",
		Role:           adminauth.RoleEditor,
		CreatedAt:      created,
	}

	value, err := adminauth.MarshalRecord(user)
	require.NoError(t, err)

	// the stored document keeps the fixed field names
	assert.Contains(t, value, `"username":"Alice"`)
	assert.Contains(t, value, `"hashedPassword":"aa"`)
	assert.Contains(t, value, `"role":"editor"`)
	assert.Contains(t, value, `"createdAt"`)
	assert.Contains(t, value, `"lastLogin":null`)

	decoded, err := adminauth.UnmarshalRecord(value)
	require.NoError(t, err)
	assert.Equal(t, user.Username, decoded.Username)
	assert.True(t, decoded.CreatedAt.Equal(created))
	assert.Nil(t, decoded.LastLogin)
}

func TestUnmarshalRecord_Corrupt(t *testing.T) {
	_, err := adminauth.UnmarshalRecord("{not json")
	assert.Error(t, err)
}
