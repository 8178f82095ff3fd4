package models

import "sync"

// GraphRole identifies the purpose of a graph within a program. Programs get
// their event graph created lazily on first lookup.
type GraphRole string

const (
	GraphRoleEvent    GraphRole = "event"
	GraphRoleFunction GraphRole = "function"
)

// DefaultGraphRole is the role consulted when a request names no graph.
const DefaultGraphRole = GraphRoleEvent

// Graph is the mutable set of nodes and connections within a program.
//
// Mutation sequences (node creation, connect/replace) must run under Lock so
// a concurrent reader never observes a half-built node or a connection with
// one endpoint recorded.
type Graph struct {
	mu sync.Mutex

	Name        string        `json:"name"`
	Role        GraphRole     `json:"role"`
	Nodes       []*Node       `json:"nodes"`
	Connections []*Connection `json:"connections"`
}

func NewGraph(name string, role GraphRole) *Graph {
	return &Graph{
		Name:        name,
		Role:        role,
		Nodes:       make([]*Node, 0),
		Connections: make([]*Connection, 0),
	}
}

func (g *Graph) Lock()   { g.mu.Lock() }
func (g *Graph) Unlock() { g.mu.Unlock() }

// FindNode returns the node with the given ID, or nil. Callers mutating the
// graph must hold the lock across lookup and mutation.
func (g *Graph) FindNode(id string) *Node {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n
		}
	}

	return nil
}

// IncomingConnection returns the connection terminating at the given port ID,
// or nil. Data inputs hold at most one incoming connection.
func (g *Graph) IncomingConnection(targetPortID string) *Connection {
	for _, c := range g.Connections {
		if c.TargetPort == targetPortID {
			return c
		}
	}

	return nil
}

// RemoveConnection deletes the connection with the given ID. Missing IDs are
// ignored.
func (g *Graph) RemoveConnection(id string) {
	for i, c := range g.Connections {
		if c.ID == id {
			g.Connections = append(g.Connections[:i], g.Connections[i+1:]...)

			return
		}
	}
}

// NodeCount returns the number of nodes, safe for concurrent use.
func (g *Graph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.Nodes)
}

// Connection connects two ports directly (fully normalized).
type Connection struct {
	ID         string `json:"id"`
	SourcePort string `json:"source_port" validate:"required"` // References Port.ID: "{node_id}:{port_name}"
	TargetPort string `json:"target_port" validate:"required"` // References Port.ID: "{node_id}:{port_name}"
}
