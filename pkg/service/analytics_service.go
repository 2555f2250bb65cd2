package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/agentsynergy/agentsynergy/pkg/analytics"
	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/utils"
)

// TrendWindowDays is the fixed window of the trends report.
const TrendWindowDays = 90

// AnalyticsService loads conversation rows for a window and hands them to
// the analytics package.
type AnalyticsService struct {
	db               *gorm.DB
	subscriptionCost float64
	now              func() time.Time
	logger           *slog.Logger
}

func NewAnalyticsService(gdb *gorm.DB, subscriptionCost float64) *AnalyticsService {
	return &AnalyticsService{
		db:               gdb,
		subscriptionCost: subscriptionCost,
		now:              func() time.Time { return time.Now().UTC() },
		logger:           utils.GetLogger(),
	}
}

func (s *AnalyticsService) conversations(ctx context.Context, userID string, since time.Time) ([]db.Conversation, error) {
	convs := []db.Conversation{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Find(&convs).Error; err != nil {
		return nil, errors.Wrap(err, "load conversations")
	}
	return convs, nil
}

func (s *AnalyticsService) agents(ctx context.Context, userID string) ([]db.Agent, error) {
	agents := []db.Agent{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&agents).Error; err != nil {
		return nil, errors.Wrap(err, "load agents")
	}
	return agents, nil
}

// Overview summarizes agents and conversations. Savings count every
// conversation in the window.
func (s *AnalyticsService) Overview(ctx context.Context, userID string, w analytics.Window) (*models.AnalyticsOverview, error) {
	var (
		agents []db.Agent
		convs  []db.Conversation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		agents, err = s.agents(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		convs, err = s.conversations(gctx, userID, w.Since(s.now()))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	active := 0
	for _, a := range agents {
		if a.Status == db.AgentStatusActive {
			active++
		}
	}
	c := analytics.Count(convs)
	return &models.AnalyticsOverview{
		TotalAgents:             len(agents),
		ActiveAgents:            active,
		TotalConversations:      c.Total,
		SuccessfulConversations: c.Completed,
		SuccessRate:             analytics.SuccessRate(c.Completed, c.Total),
		TimeSavedHours:          analytics.Round2(analytics.TimeSavedHours(c.Total)),
		CostSavings:             analytics.Round2(analytics.CostSavings(c.Total)),
		Period:                  w.Period(),
	}, nil
}

// AgentPerformance reports one agent's conversations. Savings count only
// completed conversations.
func (s *AnalyticsService) AgentPerformance(ctx context.Context, userID, agentID string, w analytics.Window) (*models.AgentPerformance, error) {
	var agent db.Agent
	if err := s.db.WithContext(ctx).First(&agent, "id = ? AND user_id = ?", agentID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, errors.Wrap(err, "load agent")
	}

	convs := []db.Conversation{}
	if err := s.db.WithContext(ctx).
		Where("agent_id = ? AND created_at >= ?", agentID, w.Since(s.now())).
		Find(&convs).Error; err != nil {
		return nil, errors.Wrap(err, "load conversations")
	}

	c := analytics.Count(convs)
	return &models.AgentPerformance{
		AgentID:                 agentID,
		TotalConversations:      c.Total,
		SuccessfulConversations: c.Completed,
		FailedConversations:     c.Failed,
		SuccessRate:             analytics.SuccessRate(c.Completed, c.Total),
		TimeSavedHours:          analytics.Round2(analytics.TimeSavedHours(c.Completed)),
		CostSavings:             analytics.Round2(analytics.CostSavings(c.Completed)),
		DailyConversations:      analytics.DailyCounts(convs),
		Period:                  w.Period(),
	}, nil
}

// ROI reports both the subscription-based and the usage-based return.
func (s *AnalyticsService) ROI(ctx context.Context, userID string, w analytics.Window) (*models.ROIAnalytics, error) {
	convs, err := s.conversations(ctx, userID, w.Since(s.now()))
	if err != nil {
		return nil, err
	}

	c := analytics.Count(convs)
	savings := analytics.CostSavings(c.Completed)
	breakEven := "pending"
	if savings >= s.subscriptionCost {
		breakEven = "achieved"
	}
	return &models.ROIAnalytics{
		Timeframe:                w.Timeframe,
		TotalConversations:       c.Total,
		SuccessfulConversations:  c.Completed,
		TimeSavedHours:           analytics.Round2(analytics.TimeSavedHours(c.Completed)),
		CostSavings:              analytics.Round2(savings),
		SubscriptionCost:         s.subscriptionCost,
		RoiPercentage:            analytics.Round2(analytics.SubscriptionROI(savings, s.subscriptionCost)),
		ConversationsToBreakEven: analytics.Round1(analytics.BreakEvenConversations(s.subscriptionCost)),
		BreakEvenStatus:          breakEven,
		TotalCost:                analytics.Round2(c.TotalCost),
		NetSavings:               analytics.Round2(savings - c.TotalCost),
		UsageRoiPercentage:       analytics.Round2(analytics.UsageROI(savings, c.TotalCost)),
		IsProfitable:             savings > c.TotalCost,
		Period:                   w.Period(),
	}, nil
}

// Conversations breaks the window down by status, type and day.
func (s *AnalyticsService) Conversations(ctx context.Context, userID string, w analytics.Window) (*models.ConversationAnalytics, error) {
	convs, err := s.conversations(ctx, userID, w.Since(s.now()))
	if err != nil {
		return nil, err
	}
	c := analytics.Count(convs)
	return &models.ConversationAnalytics{
		Timeframe:              w.Timeframe,
		PeriodDays:             w.Days,
		TotalConversations:     c.Total,
		CompletedConversations: c.Completed,
		FailedConversations:    c.Failed,
		ActiveConversations:    c.Active,
		SuccessRate:            analytics.SuccessRate(c.Completed, c.Total),
		ConversationsByStatus:  analytics.CountByStatus(convs),
		ConversationsByType:    analytics.CountByType(convs),
		DailyConversations:     analytics.DailyCounts(convs),
	}, nil
}

// Costs totals estimated spend in the window.
func (s *AnalyticsService) Costs(ctx context.Context, userID string, w analytics.Window) (*models.CostAnalytics, error) {
	convs, err := s.conversations(ctx, userID, w.Since(s.now()))
	if err != nil {
		return nil, err
	}
	c := analytics.Count(convs)
	avg := 0.0
	if c.Total > 0 {
		avg = c.TotalCost / float64(c.Total)
	}
	return &models.CostAnalytics{
		Timeframe:              w.Timeframe,
		TotalCost:              analytics.Round2(c.TotalCost),
		AvgCostPerConversation: analytics.Round2(avg),
		TotalConversations:     c.Total,
		CostByAgent:            analytics.CostByAgent(convs),
		DailyCosts:             analytics.DailyCosts(convs),
	}, nil
}

// Trends groups the last 90 days into ISO weeks.
func (s *AnalyticsService) Trends(ctx context.Context, userID string) (*models.TrendAnalytics, error) {
	w := analytics.Window{Days: TrendWindowDays}
	convs, err := s.conversations(ctx, userID, w.Since(s.now()))
	if err != nil {
		return nil, err
	}
	weekly := analytics.WeeklyCounts(convs)
	growth := analytics.GrowthRate(weekly)
	return &models.TrendAnalytics{
		WeeklyConversations: weekly,
		GrowthRatePercent:   analytics.Round2(growth),
		TrendDirection:      analytics.TrendDirection(growth),
		Period:              w.Period(),
	}, nil
}
