package framework

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Tool handles one inbound message type. Each implementation wraps a single
// editor operation (open a file, patch the endpoint registry, ...) and
// returns the messages to post back to the parent frame.
type Tool interface {
	// Name is the message type the tool handles.
	Name() MessageType
	Description() string
	Execute(ctx context.Context, session *Session, msg Message) ([]Message, error)
}

// ToolRegistry maintains tools keyed by the message type they handle.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[MessageType]Tool
}

// NewToolRegistry builds a registry instance.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[MessageType]Tool),
	}
}

// Register adds a tool to the registry.
func (r *ToolRegistry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name())
	}
	r.tools[tool.Name()] = tool
	return nil
}

// Get fetches a tool by message type.
func (r *ToolRegistry) Get(name MessageType) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// All returns all registered tools ordered by name.
func (r *ToolRegistry) All() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}

// Execute routes msg to its tool.
func (r *ToolRegistry) Execute(ctx context.Context, session *Session, msg Message) ([]Message, error) {
	tool, ok := r.Get(msg.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessage, msg.Type)
	}
	return tool.Execute(ctx, session, msg)
}
