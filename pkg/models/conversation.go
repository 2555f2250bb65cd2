package models

type CreateConversationRequest struct {
	AgentID          string                 `json:"agent_id" binding:"required"`
	Title            string                 `json:"title" binding:"max=200"`
	ConversationType string                 `json:"conversation_type" binding:"omitempty,conversation_type"`
	Metadata         map[string]interface{} `json:"metadata"`
}

type UpdateConversationRequest struct {
	Title    *string                `json:"title" binding:"omitempty,max=200"`
	Status   *string                `json:"status" binding:"omitempty,conversation_status"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ConversationFilter narrows a conversation listing.
type ConversationFilter struct {
	AgentID string
	Status  string
	Limit   int
	Offset  int
}

// AddMessageRequest appends a message. Content may be sent as "message" or
// "content".
type AddMessageRequest struct {
	Role     string                 `json:"role" binding:"omitempty,message_role"`
	Message  string                 `json:"message"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Text returns the message body from whichever field was set.
func (r *AddMessageRequest) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Content
}

// ConversationSummary is the per-user rollup under /conversations/analytics/summary.
type ConversationSummary struct {
	Timeframe              string         `json:"timeframe"`
	TotalConversations     int            `json:"total_conversations"`
	CompletedConversations int            `json:"completed_conversations"`
	FailedConversations    int            `json:"failed_conversations"`
	ActiveConversations    int            `json:"active_conversations"`
	SuccessRate            float64        `json:"success_rate"`
	TotalCost              float64        `json:"total_cost"`
	ConversationsByType    map[string]int `json:"conversations_by_type"`
	ConversationsByStatus  map[string]int `json:"conversations_by_status"`
	DailyConversations     map[string]int `json:"daily_conversations"`
}
