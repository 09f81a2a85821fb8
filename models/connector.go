package models

import "time"

// ConnectorStatus is the closed set of connector states.
type ConnectorStatus string

const (
	ConnectorDisconnected ConnectorStatus = "disconnected"
	ConnectorConnecting   ConnectorStatus = "connecting"
	ConnectorConnected    ConnectorStatus = "connected"
	ConnectorError        ConnectorStatus = "error"
)

// Connector describes one external portal feed. Endpoint, APIKey and Headers
// are user-supplied; the rest of the identity is fixed by the registry.
type Connector struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SampleURL   string `json:"sample_url"`

	Endpoint string            `json:"endpoint"`
	APIKey   string            `json:"api_key"`
	Headers  map[string]string `json:"headers,omitempty"`

	Status   ConnectorStatus `json:"status"`
	Message  string          `json:"message"`
	LastSync *time.Time      `json:"last_sync"`
}
