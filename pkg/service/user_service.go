package service

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/utils"
)

var ErrUserNotFound = errors.New("user not found")

// UserService manages the caller's own account.
type UserService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb, logger: utils.GetLogger()}
}

func (s *UserService) Get(ctx context.Context, id string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "load user")
	}
	return &user, nil
}

// Update applies the non-nil profile fields.
func (s *UserService) Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*db.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.CompanyName != nil {
		updates["company_name"] = *req.CompanyName
	}
	if req.CompanySize != nil {
		updates["company_size"] = *req.CompanySize
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update user")
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the account together with everything it owns.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		convIDs := tx.Model(&db.Conversation{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("conversation_id IN (?)", convIDs).Delete(&db.Message{}).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{&db.Conversation{}, &db.Agent{}, &db.Integration{}} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&db.User{}, "id = ?", id).Error
	})
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	s.logger.Info("User deleted", "userId", id)
	return nil
}
