package domain

import (
	"immopilot_backend/platform/apperr"

	"github.com/google/uuid"
)

// Scope is the part of a process the exclusivity rule looks at.
type Scope struct {
	ProcessID uuid.UUID
	UnitID    *uuid.UUID
	Status    Status
}

const (
	msgUnitAlreadyActive   = "a sale process is already active for this unit"
	msgGlobalBlocksUnit    = "a global sale process is already active for this property; cannot sell an individual unit"
	msgExistingBlockGlobal = "active sale processes exist for this property (global or units); cannot start a global sale"
)

// CanCreate checks whether a new process on unitID (nil for the whole property)
// may start given the processes already recorded for the property.
// Terminal processes are ignored. The error is a Conflict naming the scope.
func CanCreate(unitID *uuid.UUID, existing []Scope) error {
	for _, p := range existing {
		if p.Status.IsTerminal() {
			continue
		}

		if unitID == nil {
			return conflictWith(msgExistingBlockGlobal, p)
		}
		if p.UnitID == nil {
			return conflictWith(msgGlobalBlocksUnit, p)
		}
		if *p.UnitID == *unitID {
			return conflictWith(msgUnitAlreadyActive, p)
		}
	}
	return nil
}

func conflictWith(msg string, p Scope) error {
	scope := "global"
	if p.UnitID != nil {
		scope = "unit"
	}
	return apperr.Conflict(msg).WithDetails(map[string]string{
		"conflictingProcessId": p.ProcessID.String(),
		"conflictingScope":     scope,
	})
}
