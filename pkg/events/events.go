// Package events defines event types for graph mutation notifications. The
// host subscribes to learn that persisted program state is now dirty.
package events

import (
	"time"

	"github.com/graphsmith/graphsmith/pkg/models"
)

type EventType string

// Topic carrying all mutation events.
const Topic = "graphsmith.mutations"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ProgramModifiedEvent     EventType = "program.modified"
	NodeCreatedEvent         EventType = "node.created"
	PortsConnectedEvent      EventType = "ports.connected"
	NodeDefaultsUpdatedEvent EventType = "node.defaults.updated"
)

type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ProgramName string    `json:"program_name"`
}

// ProgramModified signals that a program's edited state diverged from its
// persisted form. Published after every successful mutation.
type ProgramModified struct {
	BaseEvent

	Command string `json:"command,omitempty"`
}

func (e ProgramModified) GetType() EventType {
	return ProgramModifiedEvent
}

type NodeCreated struct {
	BaseEvent

	GraphName string          `json:"graph_name"`
	NodeID    string          `json:"node_id"`
	Kind      string          `json:"kind"`
	Position  models.Position `json:"position"`
}

func (e NodeCreated) GetType() EventType {
	return NodeCreatedEvent
}

type PortsConnected struct {
	BaseEvent

	GraphName    string `json:"graph_name"`
	ConnectionID string `json:"connection_id"`
	SourcePort   string `json:"source_port"`
	TargetPort   string `json:"target_port"`
}

func (e PortsConnected) GetType() EventType {
	return PortsConnectedEvent
}

type NodeDefaultsUpdated struct {
	BaseEvent

	GraphName string   `json:"graph_name"`
	NodeID    string   `json:"node_id"`
	Ports     []string `json:"ports"`
}

func (e NodeDefaultsUpdated) GetType() EventType {
	return NodeDefaultsUpdatedEvent
}
