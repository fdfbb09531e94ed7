package sqlite

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type userModel struct {
	ID           string `gorm:"primaryKey"`
	Name         string `gorm:"not null;index"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string {
	return "users"
}

type attendanceModel struct {
	ID           string          `gorm:"primaryKey"`
	UserID       string          `gorm:"not null;uniqueIndex:uq_attendances_user_date,priority:1"`
	Date         time.Time       `gorm:"not null;uniqueIndex:uq_attendances_user_date,priority:2;index"`
	Status       string          `gorm:"not null"`
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	TotalHours   decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (attendanceModel) TableName() string {
	return "attendances"
}

type leaveModel struct {
	ID        string    `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;index"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Type      string    `gorm:"not null"`
	Reason    string    `gorm:"not null"`
	Status    string    `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (leaveModel) TableName() string {
	return "leaves"
}

// leaveRow is a leave joined with its requester.
type leaveRow struct {
	ID        string
	UserID    string
	StartDate time.Time
	EndDate   time.Time
	Type      string
	Reason    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
	UserName  *string
	UserEmail *string
}

type refreshTokenModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"not null;index"`
	TokenHash string    `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
	UserAgent string
	IPAddress string
	CreatedAt time.Time
}

func (refreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// Migrate creates or updates every table of the embedded store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&attendanceModel{},
		&leaveModel{},
		&refreshTokenModel{},
	)
}
