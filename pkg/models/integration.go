package models

import "time"

// IntegrationStatus is one platform's entry in /integrations/status.
type IntegrationStatus struct {
	Status      string                 `json:"status"`
	LastChecked time.Time              `json:"last_checked"`
	Config      map[string]interface{} `json:"config"`
}
