package service

import (
	"context"
	"fmt"
	"strings"
)

const defaultResponderType = "general"

// Responder produces an agent's reply to a message.
type Responder interface {
	Respond(ctx context.Context, agentID, message string, config map[string]interface{}) (string, error)
}

// TemplateResponder answers from fixed templates keyed on config["agent_type"].
type TemplateResponder struct{}

func (TemplateResponder) Respond(ctx context.Context, _ string, message string, config map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	agentType := defaultResponderType
	if v, ok := config["agent_type"].(string); ok && strings.TrimSpace(v) != "" {
		agentType = v
	}

	switch agentType {
	case "support":
		return fmt.Sprintf("Thank you for your message: '%s'. As a support agent, I'm here to help. This is a demo response - in production, I would use AI to provide a detailed answer.", message), nil
	case "qa":
		return fmt.Sprintf("QA Agent received: '%s'. I would analyze this and provide testing insights. This is a demo response.", message), nil
	case "reporting":
		return fmt.Sprintf("Reporting Agent received: '%s'. I would generate a comprehensive report based on this request. This is a demo response.", message), nil
	default:
		return fmt.Sprintf("General Agent received: '%s'. I'm here to assist you. This is a demo response.", message), nil
	}
}
