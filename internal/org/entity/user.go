package entity

import "time"

// User 门户用户
type User struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	Name         string `json:"name" gorm:"size:100"`
	Email        string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"type:text;not null"`
	Role         string `json:"role" gorm:"size:20;default:member"` // member/admin/super_admin

	OrgID string `json:"org_id" gorm:"size:32;index"`

	// 画像
	Phone      string `json:"phone" gorm:"size:20"`
	Title      string `json:"title" gorm:"size:100"`
	Department string `json:"department" gorm:"size:100"`
	TimeZone   string `json:"time_zone" gorm:"size:50;default:America/New_York"`

	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// 关联
	Org *Organization `json:"org,omitempty" gorm:"foreignKey:OrgID"`
}

func (User) TableName() string {
	return "users"
}

// 用户角色
const (
	RoleMember     = "member"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)
