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

func newMessageRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func messageColumns() []string {
	return []string{"id", "sender_id", "receiver_id", "content", "type", "read", "created_at", "sender_name", "receiver_name"}
}

func TestMessageRepositoryListVisibleResolvesNames(t *testing.T) {
	db, mock, cleanup := newMessageRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	rows := sqlmock.NewRows(messageColumns()).
		AddRow("msg-1", "user-2", "user-1", "Hello", "direct", false, time.Now(), "Dr. Smith", "Alice").
		AddRow("msg-2", "user-3", nil, "Holiday tomorrow", "broadcast", false, time.Now(), "Admin Office", nil).
		AddRow("msg-3", "user-9", "user-1", "Ping", "direct", true, time.Now(), nil, "Alice")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE m.sender_id = $1 OR m.receiver_id = $1 OR m.type = $2")).
		WithArgs("user-1", models.MessageTypeBroadcast).
		WillReturnRows(rows)

	views, err := repo.ListVisible(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, views, 3)

	require.Equal(t, "Dr. Smith", views[0].SenderName)
	require.Equal(t, "Alice", views[0].ReceiverName)

	// broadcasts always render the receiver as "All Users"
	require.Equal(t, "All Users", views[1].ReceiverName)

	// a sender deleted from users renders as "Unknown"
	require.Equal(t, "Unknown", views[2].SenderName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMessageRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	message := &models.Message{
		SenderID: "user-1",
		Content:  "Exam moved to Friday",
		Type:     models.MessageTypeBroadcast,
	}
	require.NoError(t, repo.Create(context.Background(), message))
	require.NotEmpty(t, message.ID)
	require.False(t, message.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
