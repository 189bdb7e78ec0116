package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/applicant-tracking-api/internal/models"
	"gorm.io/gorm"
)

// Signup steps that can fail inside CreateAccount. The underlying gorm
// error stays wrapped so duplicates remain detectable.
var (
	ErrUserInsert         = errors.New("insert user")
	ErrOrganizationInsert = errors.New("insert organization")
	ErrMembershipInsert   = errors.New("insert membership")
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateAccount inserts the user, their organization and an owner
// membership in one transaction.
func (r *GormUserRepository) CreateAccount(ctx context.Context, user *models.User, org *models.Organization) (*models.OrganizationMember, error) {
	var member *models.OrganizationMember
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrUserInsert, err)
		}
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrOrganizationInsert, err)
		}

		member = &models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         user.ID,
			Role:           models.RoleOwner,
			JoinedAt:       time.Now().UTC(),
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrMembershipInsert, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	member.Organization = org
	return member, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Take(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail expects an already normalized address.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Take(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
