package models

type AnalyticsOverview struct {
	TotalAgents             int     `json:"total_agents"`
	ActiveAgents            int     `json:"active_agents"`
	TotalConversations      int     `json:"total_conversations"`
	SuccessfulConversations int     `json:"successful_conversations"`
	SuccessRate             float64 `json:"success_rate"`
	TimeSavedHours          float64 `json:"time_saved_hours"`
	CostSavings             float64 `json:"cost_savings"`
	Period                  string  `json:"period"`
}

type AgentPerformance struct {
	AgentID                 string         `json:"agent_id"`
	TotalConversations      int            `json:"total_conversations"`
	SuccessfulConversations int            `json:"successful_conversations"`
	FailedConversations     int            `json:"failed_conversations"`
	SuccessRate             float64        `json:"success_rate"`
	TimeSavedHours          float64        `json:"time_saved_hours"`
	CostSavings             float64        `json:"cost_savings"`
	DailyConversations      map[string]int `json:"daily_conversations"`
	Period                  string         `json:"period"`
}

// ROIAnalytics reports return on investment two ways: against the flat
// subscription price (RoiPercentage) and against summed usage cost
// (UsageRoiPercentage).
type ROIAnalytics struct {
	Timeframe                string  `json:"timeframe"`
	TotalConversations       int     `json:"total_conversations"`
	SuccessfulConversations  int     `json:"successful_conversations"`
	TimeSavedHours           float64 `json:"time_saved_hours"`
	CostSavings              float64 `json:"cost_savings"`
	SubscriptionCost         float64 `json:"subscription_cost"`
	RoiPercentage            float64 `json:"roi_percentage"`
	ConversationsToBreakEven float64 `json:"conversations_to_break_even"`
	BreakEvenStatus          string  `json:"break_even_status"`
	TotalCost                float64 `json:"total_cost"`
	NetSavings               float64 `json:"net_savings"`
	UsageRoiPercentage       float64 `json:"usage_roi_percentage"`
	IsProfitable             bool    `json:"is_profitable"`
	Period                   string  `json:"period"`
}

type ConversationAnalytics struct {
	Timeframe              string         `json:"timeframe"`
	PeriodDays             int            `json:"period_days"`
	TotalConversations     int            `json:"total_conversations"`
	CompletedConversations int            `json:"completed_conversations"`
	FailedConversations    int            `json:"failed_conversations"`
	ActiveConversations    int            `json:"active_conversations"`
	SuccessRate            float64        `json:"success_rate"`
	ConversationsByStatus  map[string]int `json:"conversations_by_status"`
	ConversationsByType    map[string]int `json:"conversations_by_type"`
	DailyConversations     map[string]int `json:"daily_conversations"`
}

type CostAnalytics struct {
	Timeframe              string             `json:"timeframe"`
	TotalCost              float64            `json:"total_cost"`
	AvgCostPerConversation float64            `json:"avg_cost_per_conversation"`
	TotalConversations     int                `json:"total_conversations"`
	CostByAgent            map[string]float64 `json:"cost_by_agent"`
	DailyCosts             map[string]float64 `json:"daily_costs"`
}

type TrendAnalytics struct {
	WeeklyConversations map[string]int `json:"weekly_conversations"`
	GrowthRatePercent   float64        `json:"growth_rate_percent"`
	TrendDirection      string         `json:"trend_direction"`
	Period              string         `json:"period"`
}
