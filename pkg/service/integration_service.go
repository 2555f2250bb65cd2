package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/utils"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

// IntegrationService stores per-platform connection settings. Nothing is
// verified against the platform itself.
type IntegrationService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewIntegrationService(gdb *gorm.DB) *IntegrationService {
	return &IntegrationService{db: gdb, logger: utils.GetLogger()}
}

// NormalizePlatform maps a path segment to a platform name, accepting
// google-sheets for google_sheets.
func NormalizePlatform(platform string) (string, error) {
	p := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(platform)), "-", "_")
	for _, known := range db.Platforms {
		if p == known {
			return p, nil
		}
	}
	return "", ErrUnsupportedPlatform
}

// List returns the user's integrations ordered by platform, with secrets
// masked.
func (s *IntegrationService) List(ctx context.Context, userID string) ([]db.Integration, error) {
	rows, err := s.rows(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Config = utils.MaskConfig(rows[i].Config)
	}
	return rows, nil
}

func (s *IntegrationService) rows(ctx context.Context, userID string) ([]db.Integration, error) {
	rows := []db.Integration{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("platform ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list integrations")
	}
	return rows, nil
}

// Upsert saves the config for (user, platform) and marks it active. The
// stored config keeps its secrets; the returned copy has them masked.
func (s *IntegrationService) Upsert(ctx context.Context, userID, platform string, config map[string]interface{}) (*db.Integration, error) {
	p, err := NormalizePlatform(platform)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = map[string]interface{}{}
	}

	row := &db.Integration{
		ID:       uuid.New().String(),
		UserID:   userID,
		Platform: p,
		Config:   datatypes.JSONMap(config),
		Status:   db.IntegrationStatusActive,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{"config", "status", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, errors.Wrapf(err, "save %s integration", p)
	}

	var saved db.Integration
	if err := s.db.WithContext(ctx).First(&saved, "user_id = ? AND platform = ?", userID, p).Error; err != nil {
		return nil, errors.Wrap(err, "reload integration")
	}
	s.logger.Info("Integration configured", "userId", userID, "platform", p)
	saved.Config = utils.MaskConfig(saved.Config)
	return &saved, nil
}

// Delete removes the integration if present.
func (s *IntegrationService) Delete(ctx context.Context, userID, platform string) error {
	p, err := NormalizePlatform(platform)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("user_id = ? AND platform = ?", userID, p).Delete(&db.Integration{}).Error; err != nil {
		return errors.Wrapf(err, "delete %s integration", p)
	}
	return nil
}

// Status reports each configured platform with secrets masked.
func (s *IntegrationService) Status(ctx context.Context, userID string) (map[string]models.IntegrationStatus, error) {
	rows, err := s.rows(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.IntegrationStatus, len(rows))
	for _, row := range rows {
		out[row.Platform] = models.IntegrationStatus{
			Status:      row.Status,
			LastChecked: row.UpdatedAt,
			Config:      utils.MaskConfig(row.Config),
		}
	}
	return out, nil
}
