package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userdesk/internal/models"
)

func TestUsersReport(t *testing.T) {
	g := NewReportGenerator("")
	users := []*models.User{
		{ID: 1, Name: "Alice", Email: "a@x.com", Role: "admin", Status: "active"},
		{ID: 2, Name: "Bob With A Very Long Name That Needs Cutting", Email: "b@x.com", Role: "user", Status: "inactive"},
	}

	out, err := g.UsersReport(users, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestUsersReport_Empty(t *testing.T) {
	out, err := NewReportGenerator("").UsersReport(nil, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	cut := truncate("abcdefghijklmnopqrstuvwxyz", 10)
	assert.Equal(t, []rune("abcd…"), []rune(cut))
}
