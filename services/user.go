package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JidouAI/metrio-memory/pkg/logger"
	"github.com/JidouAI/metrio-memory/repos"
	"github.com/JidouAI/metrio-memory/types"
)

type UserService interface {
	GetOrCreate(ctx context.Context, tenantID uuid.UUID, externalID string) (*types.User, error)
	// GetByExternalID returns nil without error when the user does not exist.
	GetByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*types.User, error)
	// Update touches the only mutable user fields: display name and metadata.
	Update(ctx context.Context, userID uuid.UUID, displayName *string, metadata map[string]interface{}) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (s *userService) GetOrCreate(ctx context.Context, tenantID uuid.UUID, externalID string) (*types.User, error) {
	return s.userRepo.GetOrCreate(ctx, nil, tenantID, externalID)
}

func (s *userService) GetByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*types.User, error) {
	return s.userRepo.GetByExternalID(ctx, nil, tenantID, externalID)
}

func (s *userService) Update(ctx context.Context, userID uuid.UUID, displayName *string, metadata map[string]interface{}) (*types.User, error) {
	return s.userRepo.UpdateProfileFields(ctx, nil, userID, displayName, metadata)
}
