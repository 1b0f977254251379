package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"debteraser/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })
	return db, mock
}

func TestCreateMessage_SingleTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewChatRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "conversations"`).
		WithArgs(uint(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "last_message"}).
			AddRow(7, 1, "old preview"))
	mock.ExpectQuery(`INSERT INTO "messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))
	mock.ExpectExec(`UPDATE "conversations" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	msg := &models.Message{ConversationID: 7, SenderID: 1, Content: "fresh preview", CreatedAt: now}
	err := repo.CreateMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(),
		"message insert and conversation cache update must share one transaction")
}

func TestCreateMessage_RollbackOnCacheUpdateFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewChatRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "conversations"`).
		WithArgs(uint(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(7, 1))
	mock.ExpectQuery(`INSERT INTO "messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))
	mock.ExpectExec(`UPDATE "conversations" SET`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	msg := &models.Message{ConversationID: 7, SenderID: 1, Content: "doomed"}
	err := repo.CreateMessage(context.Background(), msg)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
