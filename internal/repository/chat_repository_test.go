package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iomp-platform/iomp-api/internal/models"
)

func newChatRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestChatRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newChatRepoMock(t)
	defer cleanup()

	repo := NewChatRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chat_messages")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	turn := &models.ChatMessage{
		UserID:   "user-1",
		Message:  "when is the next event?",
		Response: "Upcoming events: Science Fair on Sep 04.",
	}
	require.NoError(t, repo.Create(context.Background(), turn))
	require.NotEmpty(t, turn.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newChatRepoMock(t)
	defer cleanup()

	repo := NewChatRepository(db)
	rows := sqlmock.NewRows([]string{"id", "user_id", "message", "response", "created_at"}).
		AddRow("turn-2", "user-1", "and tomorrow?", "No classes tomorrow.", time.Now()).
		AddRow("turn-1", "user-1", "my attendance?", "You have attended 8 of 10 classes (80%).", time.Now().Add(-time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta("FROM chat_messages WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2")).
		WithArgs("user-1", 20).
		WillReturnRows(rows)

	turns, err := repo.ListRecent(context.Background(), "user-1", 20)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	require.Equal(t, "turn-2", turns[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
