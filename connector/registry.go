package connector

import (
	"fmt"
	"sync"
	"time"

	"emlak-analytics/models"
)

// sources are the portal feeds the system knows how to talk to. Only the
// identity is fixed here; endpoint, credentials and headers come from the
// user at runtime.
var sources = []models.Connector{
	{ID: "sahibinden", Name: "Sahibinden", Description: "Largest Turkish listing platform. No official API; needs a proxy or scraper.", SampleURL: "https://api.your-domain.com/sahibinden/listings"},
	{ID: "hepsiemlak", Name: "Hepsiemlak", Description: "Syncs with the real estate listings API of the Hepsiburada ecosystem.", SampleURL: "https://api.your-domain.com/hepsiemlak/listings"},
	{ID: "zingat", Name: "Zingat", Description: "Provides regional price trends. Expects listing data in JSON format.", SampleURL: "https://api.your-domain.com/zingat/listings"},
	{ID: "emlakjet", Name: "Emlakjet", Description: "OAuth/token based integration.", SampleURL: "https://api.your-domain.com/emlakjet/listings"},
	{ID: "coldwell", Name: "Coldwell Banker TR", Description: "Corporate API connection for office based portfolios.", SampleURL: "https://api.your-domain.com/coldwell/listings"},
	{ID: "remax", Name: "RE/MAX Türkiye", Description: "Data bridge for listings coming from franchise offices.", SampleURL: "https://api.your-domain.com/remax/listings"},
	{ID: "century21", Name: "Century 21 Türkiye", Description: "Automatic sync with an authorized broker API key.", SampleURL: "https://api.your-domain.com/century21/listings"},
	{ID: "flatfy", Name: "Flatfy Türkiye", Description: "JSON endpoint for aggregated listing data.", SampleURL: "https://api.your-domain.com/flatfy/listings"},
	{ID: "tremglobal", Name: "Trem Global", Description: "Single API connection for luxury projects.", SampleURL: "https://api.your-domain.com/tremglobal/listings"},
	{ID: "hurriyet", Name: "Hürriyet Emlak", Description: "Many providers still use this format even though the portal closed.", SampleURL: "https://api.your-domain.com/hurriyet/listings"},
}

// Registry keeps the connector state. All access goes through the mutex; the
// collaborator layer may test and sync connectors concurrently.
type Registry struct {
	mu         sync.RWMutex
	connectors map[string]*models.Connector
	order      []string
}

// NewRegistry builds a registry populated with the known portal sources, all
// starting disconnected.
func NewRegistry() *Registry {
	r := &Registry{connectors: make(map[string]*models.Connector, len(sources))}
	for _, src := range sources {
		c := src
		c.Status = models.ConnectorDisconnected
		c.Message = "Not connected yet."
		r.connectors[c.ID] = &c
		r.order = append(r.order, c.ID)
	}
	return r
}

// List returns a snapshot of all connectors in registration order.
func (r *Registry) List() []models.Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Connector, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.connectors[id])
	}
	return out
}

// Get returns a snapshot of one connector.
func (r *Registry) Get(id string) (models.Connector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.connectors[id]
	if !ok {
		return models.Connector{}, fmt.Errorf("unknown connector %q", id)
	}
	return *c, nil
}

// Configure updates the user-supplied connection settings of a connector.
func (r *Registry) Configure(id, endpoint, apiKey string, headers map[string]string) (models.Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.connectors[id]
	if !ok {
		return models.Connector{}, fmt.Errorf("unknown connector %q", id)
	}
	c.Endpoint = endpoint
	c.APIKey = apiKey
	c.Headers = headers
	return *c, nil
}

// SetStatus transitions a connector's status and message.
func (r *Registry) SetStatus(id string, status models.ConnectorStatus, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.connectors[id]; ok {
		c.Status = status
		c.Message = message
	}
}

// MarkSynced records a successful sync.
func (r *Registry) MarkSynced(id, message string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.connectors[id]; ok {
		c.Status = models.ConnectorConnected
		c.Message = message
		c.LastSync = &at
	}
}
