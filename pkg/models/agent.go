package models

type CreateAgentRequest struct {
	Name        string                 `json:"name" binding:"required,min=1,max=100"`
	AgentType   string                 `json:"agent_type" binding:"required,agent_type"`
	Description *string                `json:"description"`
	Config      map[string]interface{} `json:"config"`
	// UserID is optional; when set it must match the caller.
	UserID string `json:"user_id"`
}

type UpdateAgentRequest struct {
	Name        *string                `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string                `json:"description"`
	Config      map[string]interface{} `json:"config"`
	Status      *string                `json:"status" binding:"omitempty,agent_status"`
}

type ChatRequest struct {
	Message          string                 `json:"message" binding:"required"`
	ConversationType string                 `json:"conversation_type" binding:"omitempty,conversation_type"`
	Metadata         map[string]interface{} `json:"metadata"`
	UserID           string                 `json:"user_id"`
}
