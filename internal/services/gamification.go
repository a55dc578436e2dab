package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
)

// awardBadgeOnce creates the named badge unless the user already holds it.
// Returns the badge only when this call created it.
func awardBadgeOnce(ctx context.Context, repo repositories.Repository, tx *gorm.DB, userID, name, description string) (*models.GamificationBadge, error) {
	has, err := repo.Gamification().HasBadge(ctx, tx, userID, name)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, nil
	}

	badge := &models.GamificationBadge{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	created, err := repo.Gamification().AwardBadge(ctx, tx, badge)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}
	return badge, nil
}

func badgeAwardedEvent(badge *models.GamificationBadge) events.Event {
	return events.NewEvent(events.BadgeAwarded, badge.UserID, map[string]interface{}{
		"badge_id":    badge.ID,
		"name":        badge.Name,
		"description": badge.Description,
	})
}

func badgeName(badge *models.GamificationBadge) *string {
	if badge == nil {
		return nil
	}
	name := badge.Name
	return &name
}
