package session

import (
	"sync"

	"github.com/kspforge/shipwright/internal/model"
)

// Context holds the current session and install state
type Context struct {
	mu      sync.RWMutex
	Session *model.Session
	Install *model.Install
}

// NewContext creates a new Context with default values
func NewContext() *Context {
	return &Context{
		Session: &model.Session{Tag: "No session loaded"},
		Install: &model.Install{Path: "No install loaded"},
	}
}

// GetSession returns the current session
func (sc *Context) GetSession() *model.Session {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.Session
}

// GetInstall returns the current install
func (sc *Context) GetInstall() *model.Install {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.Install
}

// SetSession sets the current session and install
func (sc *Context) SetSession(session *model.Session, install *model.Install) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.Session = session
	sc.Install = install
}
