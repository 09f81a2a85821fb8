package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"emlak-analytics/models"
	"emlak-analytics/services"
	"emlak-analytics/utils"
)

// Manager drives connector test and sync operations. Each operation is an
// independent user-triggered action: two syncs of the same connector are not
// coordinated, and the store's merge-then-swap keeps readers consistent
// either way. Fetch failures only ever touch the connector's own status.
type Manager struct {
	registry   *Registry
	client     *Client
	normalizer *services.Normalizer
	store      *services.Store
	logger     *utils.Logger
}

// NewManager wires the connector layer to the normalizer and the store.
func NewManager(registry *Registry, client *Client, normalizer *services.Normalizer, store *services.Store, logger *utils.Logger) *Manager {
	return &Manager{
		registry:   registry,
		client:     client,
		normalizer: normalizer,
		store:      store,
		logger:     logger,
	}
}

// Registry exposes the underlying registry for listing and configuration.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Test fetches from the connector endpoint without storing anything and
// reports the outcome through the connector status.
func (m *Manager) Test(ctx context.Context, id string) (models.Connector, error) {
	conn, err := m.registry.Get(id)
	if err != nil {
		return models.Connector{}, err
	}

	opID := shortID()
	m.registry.SetStatus(id, models.ConnectorConnecting, "Testing connection…")
	m.logger.Info("[connector] %s: test %s started", conn.Name, opID)

	records, err := m.client.Fetch(ctx, conn)
	if err != nil {
		m.registry.SetStatus(id, models.ConnectorError, fmt.Sprintf("Connection failed: %v", err))
		m.logger.Warn("[connector] %s: test %s failed: %v", conn.Name, opID, err)
		return m.registry.Get(id)
	}

	m.registry.SetStatus(id, models.ConnectorConnected,
		fmt.Sprintf("Connection successful. %d records returned (not stored).", len(records)))
	m.logger.Info("[connector] %s: test %s ok, %d records", conn.Name, opID, len(records))
	return m.registry.Get(id)
}

// Sync fetches, normalizes and merges records into the store, reporting
// received and newly inserted counts.
func (m *Manager) Sync(ctx context.Context, id string) (models.Connector, error) {
	conn, err := m.registry.Get(id)
	if err != nil {
		return models.Connector{}, err
	}

	opID := shortID()
	m.registry.SetStatus(id, models.ConnectorConnecting, "Fetching and analysing data…")
	m.logger.Info("[connector] %s: sync %s started", conn.Name, opID)

	records, err := m.client.Fetch(ctx, conn)
	if err != nil {
		m.registry.SetStatus(id, models.ConnectorError, fmt.Sprintf("Sync failed: %v", err))
		m.logger.Warn("[connector] %s: sync %s failed: %v", conn.Name, opID, err)
		return m.registry.Get(id)
	}

	normalized := m.normalizer.NormalizeAll(records, conn.Name)
	inserted := m.store.Merge(normalized)

	m.registry.MarkSynced(id,
		fmt.Sprintf("%d records received, %d new listings added.", len(records), inserted),
		time.Now())
	m.logger.Info("[connector] %s: sync %s done — %d received, %d inserted",
		conn.Name, opID, len(records), inserted)
	return m.registry.Get(id)
}

func shortID() string {
	return uuid.NewString()[:8]
}
