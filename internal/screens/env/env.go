// Package env carries the dependencies shared by every TUI screen.
package env

import (
	"context"

	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/growth"
	"github.com/abhisek/imci/internal/store"
)

// Env is shared by pointer so a role change is seen by every screen.
type Env struct {
	Graph    *decision.Graph
	Curves   growth.CurveSet
	Counsel  *counsel.Service
	Settings store.SettingsRepo // nil disables role persistence
	Role     counsel.Role
}

// SetRole changes the active role and persists it when a settings store
// is configured.
func (e *Env) SetRole(ctx context.Context, r counsel.Role) error {
	if e.Settings != nil {
		if err := counsel.SaveRole(ctx, e.Settings, r); err != nil {
			return err
		}
	}
	e.Role = r
	return nil
}

// Status is the header text for the current role and counselling mode.
func (e *Env) Status() string {
	mode := "static advice"
	if e.Counsel != nil && e.Counsel.ModelBacked() {
		mode = "AI counselling"
	}
	return e.Role.Name() + " · " + mode
}
