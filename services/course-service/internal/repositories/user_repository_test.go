package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/courseforge/backend/services/course-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUserTestRepository creates a user repository with a mock database
func setupUserTestRepository(t *testing.T) (*userRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewUserRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestUserRepository_GetByID(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		errorContains string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "email", "display_name", "photo_url", "created_at", "updated_at"}).
					AddRow("uid-1", "ada@example.com", "Ada", "", testTime, testTime)
				mock.ExpectQuery(`SELECT .* FROM users WHERE id = \?`).
					WithArgs("uid-1").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM users WHERE id = \?`).
					WithArgs("uid-1").
					WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrRecordNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM users WHERE id = \?`).
					WithArgs("uid-1").
					WillReturnError(errors.New("database error"))
			},
			errorContains: "failed to get user by id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupUserTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			user, err := repo.GetByID(context.Background(), "uid-1")

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			case tt.errorContains != "":
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			default:
				require.NoError(t, err)
				assert.Equal(t, "ada@example.com", user.Email)
				assert.Equal(t, testTime, user.CreatedAt)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Upsert(t *testing.T) {
	user := &models.User{ID: "uid-1", Email: "ada@example.com", DisplayName: "Ada", CreatedAt: testTime, UpdatedAt: testTime}

	t.Run("success", func(t *testing.T) {
		repo, mock, cleanup := setupUserTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO users .* ON DUPLICATE KEY UPDATE`).
			WithArgs("uid-1", "ada@example.com", "Ada", "", testTime, testTime).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Upsert(context.Background(), user))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		repo, mock, cleanup := setupUserTestRepository(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("database error"))

		err := repo.Upsert(context.Background(), user)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to upsert user")
	})
}
