package domain

import (
	"testing"

	"immopilot_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestCanCreate(t *testing.T) {
	u1 := uuid.New()
	u2 := uuid.New()

	unitScope := func(unit uuid.UUID, status Status) Scope {
		return Scope{ProcessID: uuid.New(), UnitID: &unit, Status: status}
	}
	globalScope := func(status Status) Scope {
		return Scope{ProcessID: uuid.New(), Status: status}
	}

	cases := []struct {
		name     string
		unit     *uuid.UUID
		existing []Scope
		conflict bool
	}{
		{"first global", nil, nil, false},
		{"first unit", &u1, nil, false},
		{"second process on same unit", &u1, []Scope{unitScope(u1, StatusVisits)}, true},
		{"other unit is free", &u2, []Scope{unitScope(u1, StatusVisits)}, false},
		{"global blocks unit", &u1, []Scope{globalScope(StatusDraft)}, true},
		{"unit blocks global", nil, []Scope{unitScope(u1, StatusOnMarket)}, true},
		{"global blocks global", nil, []Scope{globalScope(StatusOffers)}, true},
		{"signed unit frees scope", &u1, []Scope{unitScope(u1, StatusActSigned)}, false},
		{"cancelled global frees scope", &u1, []Scope{globalScope(StatusCancelled)}, false},
		{"abandoned unit frees global", nil, []Scope{unitScope(u1, StatusAbandoned)}, false},
	}

	for _, tc := range cases {
		err := CanCreate(tc.unit, tc.existing)
		if tc.conflict && !apperr.Is(err, apperr.KindConflict) {
			t.Fatalf("%s: expected conflict, got %v", tc.name, err)
		}
		if !tc.conflict && err != nil {
			t.Fatalf("%s: expected no error, got %v", tc.name, err)
		}
	}
}

func TestCanCreateNamesConflictingScope(t *testing.T) {
	u1 := uuid.New()
	blocking := Scope{ProcessID: uuid.New(), UnitID: &u1, Status: StatusNegotiation}

	err := CanCreate(nil, []Scope{blocking})
	appErr, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected *apperr.Error, got %v", err)
	}
	details, _ := appErr.Details.(map[string]string)
	if details["conflictingProcessId"] != blocking.ProcessID.String() || details["conflictingScope"] != "unit" {
		t.Fatalf("unexpected details %v", appErr.Details)
	}
}
