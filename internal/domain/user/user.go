package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"column:username;not null;uniqueIndex" json:"username"`
	Password     string    `gorm:"column:password_hash;not null" json:"-"`
	TotalXP      int       `gorm:"column:total_xp;not null;default:0;check:chk_user_total_xp,total_xp >= 0" json:"total_xp"`
	CurrentLevel int       `gorm:"column:current_level;not null;default:1" json:"current_level"`
	AvatarURL    *string   `gorm:"column:avatar_url" json:"avatar_url"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CurrentLevel == 0 {
		u.CurrentLevel = 1
	}
	return nil
}
