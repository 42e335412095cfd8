package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	EventBufferSize int    `json:"event_buffer_size"`
	StorageType     string `json:"storage_type"`
	Notes           int    `json:"notes"`
	Capture         string `json:"capture"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storageType := "unknown"
	if s.kv != nil {
		storageType = "kv"
		// Try to get component type if storage implements introspection.Component
		if comp, ok := s.kv.(introspection.Component); ok {
			storageType = comp.ComponentType()
		}
	}

	return ServiceState{
		EventBufferSize: s.eventBufferSize,
		StorageType:     storageType,
		Notes:           s.store.Len(),
		Capture:         s.capture.Status().String(),
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

// StoreState exposes the note store for observability.
type StoreState struct {
	Slot        string `json:"slot"`
	Notes       int    `json:"notes"`
	Subscribers int    `json:"subscribers"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Slot:        s.slot,
		Notes:       len(s.notes),
		Subscribers: len(s.subs),
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "note-store"
}

// CaptureState exposes the capture session for observability.
type CaptureState struct {
	Status     string `json:"status"`
	Language   string `json:"language"`
	DraftChars int    `json:"draft_chars"`
	Live       bool   `json:"live"`
}

// State implements introspection.Introspectable.
func (c *CaptureSession) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CaptureState{
		Status:     c.status.String(),
		Language:   c.config.Language,
		DraftChars: len([]rune(c.draft)),
		Live:       c.handle != nil,
	}
}

// ComponentType implements introspection.Component.
func (c *CaptureSession) ComponentType() string {
	return "capture-session"
}

var (
	_ introspection.Introspectable = (*Service)(nil)
	_ introspection.Component      = (*Service)(nil)
	_ introspection.Introspectable = (*Store)(nil)
	_ introspection.Component      = (*Store)(nil)
	_ introspection.Introspectable = (*CaptureSession)(nil)
	_ introspection.Component      = (*CaptureSession)(nil)
)
