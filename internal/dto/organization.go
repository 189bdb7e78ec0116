package dto

import (
	"github.com/yukikurage/applicant-tracking-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ReadOnly bool   `json:"read_only"`
}

// OrganizationWithRoleDTO represents an organization with the user's role
type OrganizationWithRoleDTO struct {
	OrganizationDTO
	Role models.OrganizationRole `json:"role"`
}

// SessionDTO is the signed-in user and their active organization
type SessionDTO struct {
	User                 UserDTO                   `json:"user"`
	ActiveOrganizationID string                    `json:"active_organization_id,omitempty"`
	Organizations        []OrganizationWithRoleDTO `json:"organizations"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// ToOrganizationDTO converts an organization model to DTO
func ToOrganizationDTO(org models.Organization, readOnly bool) OrganizationDTO {
	return OrganizationDTO{
		ID:       org.ID,
		Name:     org.Name,
		Slug:     org.Slug,
		ReadOnly: readOnly,
	}
}

// ToOrganizationWithRoleDTO converts an organization member to DTO with role.
// The membership must have its Organization loaded.
func ToOrganizationWithRoleDTO(member models.OrganizationMember, readOnly bool) OrganizationWithRoleDTO {
	var org models.Organization
	if member.Organization != nil {
		org = *member.Organization
	}
	return OrganizationWithRoleDTO{
		OrganizationDTO: ToOrganizationDTO(org, readOnly),
		Role:            member.Role,
	}
}
