package entity

import "time"

// Invitation 组织邀请：通过邮件发放一次性令牌
type Invitation struct {
	ID    string `json:"id" gorm:"primaryKey;size:32"`
	OrgID string `json:"org_id" gorm:"size:32;not null;index"`

	InvitedEmail string `json:"invited_email" gorm:"size:255;not null"`
	InvitedName  string `json:"invited_name" gorm:"size:255"`
	InvitedRole  string `json:"invited_role" gorm:"size:20;default:member"`

	Token  string `json:"-" gorm:"size:64;uniqueIndex;not null"`
	Status string `json:"status" gorm:"size:20;default:pending;index"` // pending/accepted/expired/revoked

	ExpiresAt  time.Time  `json:"expires_at" gorm:"not null"`
	AcceptedAt *time.Time `json:"accepted_at"`
	AcceptedBy *string    `json:"accepted_by" gorm:"size:32"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Org *Organization `json:"org,omitempty" gorm:"foreignKey:OrgID"`
}

func (Invitation) TableName() string {
	return "organization_invitations"
}

// 邀请状态
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusExpired  = "expired"
	InvitationStatusRevoked  = "revoked"
)
