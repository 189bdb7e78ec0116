package models

import "time"

// OrganizationRole is a member's role inside an organization. Every role
// can manage jobs and candidates; owner marks whoever created the tenant.
type OrganizationRole string

const (
	RoleOwner  OrganizationRole = "owner"
	RoleAdmin  OrganizationRole = "admin"
	RoleMember OrganizationRole = "member"
)

// OrganizationMember links a user to a tenant. The composite key keeps a
// user from joining the same organization twice.
type OrganizationMember struct {
	OrganizationID string           `gorm:"type:varchar(36);primaryKey" json:"organization_id"`
	UserID         string           `gorm:"type:varchar(36);primaryKey;index" json:"user_id"`
	Role           OrganizationRole `gorm:"type:varchar(20);not null;default:member" json:"role"`
	JoinedAt       time.Time        `gorm:"not null" json:"joined_at"`

	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`
	User         *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
