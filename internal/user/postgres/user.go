package postgres

import (
	"context"
	"time"

	"github.com/ardanpr/expense-report-portal/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

// UpsertByGPN inserts the credential row, or on a gpn conflict overwrites
// email, password_hash and updated_at while leaving created_at untouched.
func (r *UserRepository) UpsertByGPN(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gpn"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "password_hash", "updated_at"}),
		}).
		Create(u).Error
}
