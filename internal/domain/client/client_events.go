package client

import (
	"github.com/agencyhub/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeClient = "Client"

// Event type constants
const (
	EventTypeClientCreated  = "ClientCreated"
	EventTypeClientArchived = "ClientArchived"
)

// ClientCreatedEvent is published when a new client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(client *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, AggregateTypeClient, client.ID, client.AgencyID),
		Name:            client.Name,
		Slug:            client.Slug,
	}
}

// ClientArchivedEvent is published when a client is archived
type ClientArchivedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewClientArchivedEvent creates a new ClientArchivedEvent
func NewClientArchivedEvent(client *Client) *ClientArchivedEvent {
	return &ClientArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientArchived, AggregateTypeClient, client.ID, client.AgencyID),
		Name:            client.Name,
		Slug:            client.Slug,
	}
}
