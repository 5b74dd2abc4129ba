package user

import (
	"time"
)

// User is a submitter's portal credential, keyed by GPN. The row is written
// only as a side effect of a submission batch that carries a user_email;
// every such batch regenerates the temporary password.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	GPN          string    `json:"gpn" gorm:"column:gpn;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"column:email;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}
