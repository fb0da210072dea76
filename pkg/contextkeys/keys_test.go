package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserID(t *testing.T) {
	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	ctx := WithUserID(context.Background(), 42)
	userID, ok := GetUserID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), userID)
}

func TestUserID_WrongTypeIgnored(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, "42")
	_, ok := GetUserID(ctx)
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))
}

func TestRequestUser(t *testing.T) {
	ctx, user := WithRequestUser(context.Background())
	assert.False(t, user.Known)

	// Set deeper in the chain; the holder is shared with the outer context
	inner := WithUserID(context.WithValue(ctx, Key("other"), 1), 7)
	_, ok := GetUserID(ctx)
	assert.False(t, ok)

	assert.True(t, user.Known)
	assert.Equal(t, int64(7), user.ID)
	id, ok := GetUserID(inner)
	assert.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestRequestUser_Absent(t *testing.T) {
	ctx := WithUserID(context.Background(), 3)
	_, ok := ctx.Value(RequestUserKey).(*RequestUser)
	assert.False(t, ok)
}
