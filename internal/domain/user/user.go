package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/starcatalog-backend/internal/domain/catalog"
)

type Role string

const (
	RoleResearcher Role = "researcher"
	RoleViewer     Role = "viewer"
)

func (r Role) Valid() bool {
	return r == RoleResearcher || r == RoleViewer
}

type User struct {
	ID           uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Username     string    `gorm:"column:username;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         Role      `gorm:"column:role;not null" json:"role"`

	// Observations carries the researcher foreign key on observations.user_id.
	Observations []catalog.Observation `gorm:"foreignKey:UserID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }
