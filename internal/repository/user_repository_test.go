package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_EmailRegisteredIgnoresActiveFlag(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  bool
	}{
		{name: "held by any account", count: 1, want: true},
		{name: "free", count: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE email = \\?$").
				WithArgs("satoshi@example.com").
				WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(tt.count))

			got, err := NewUserRepository(db).EmailRegistered(context.Background(), "satoshi@example.com")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_FindActiveByUsernameFiltersInactive(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE username = \\? AND is_active = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "is_active"}))

	_, err := NewUserRepository(db).FindActiveByUsername(context.Background(), "satoshi")

	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
