package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"immopilot_backend/platform/apperr"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestQueriesLockRows(t *testing.T) {
	cases := map[string]string{
		"process for update": QueryGetProcessForUpdate,
		"offer for update":   QueryGetOfferForUpdate,
	}
	for name, query := range cases {
		if !strings.HasSuffix(strings.TrimSpace(query), "FOR UPDATE") {
			t.Fatalf("%s: expected FOR UPDATE, got %q", name, query)
		}
	}
}

func TestLockPropertyUsesAdvisoryLock(t *testing.T) {
	query := strings.ToLower(QueryLockProperty)
	for _, fragment := range []string{"pg_advisory_xact_lock", "hashtextextended"} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("expected lock query to contain %q, got %q", fragment, QueryLockProperty)
		}
	}
}

func TestListQueriesOrdering(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		fragment string
	}{
		{"processes", QueryListByProperty, "order by created_at desc"},
		{"visits", QueryListVisits, "order by visit_date desc"},
		{"offers", QueryListOffers, "order by offer_date desc"},
		{"transitions", QueryListTransitions, "order by created_at asc"},
		{"visit count", QueryCountVisits, "prospect_id = $2"},
	}
	for _, tc := range cases {
		if !strings.Contains(strings.ToLower(tc.query), tc.fragment) {
			t.Fatalf("%s: expected %q in %q", tc.name, tc.fragment, tc.query)
		}
	}
}

func TestUpdateProcessNeverWritesIdentity(t *testing.T) {
	set := strings.ToLower(QueryUpdateProcess[:strings.Index(QueryUpdateProcess, "WHERE")])
	for _, column := range []string{"property_id", "unit_id", "created_at"} {
		if strings.Contains(set, column+" =") {
			t.Fatalf("update must not rewrite %s", column)
		}
	}
}

func TestMapUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolation, ConstraintName: idxActiveUnit}
	err := mapUniqueViolation(fmt.Errorf("insert: %w", pgErr))
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !strings.Contains(err.Error(), "unit") {
		t.Fatalf("expected unit scope in message, got %q", err.Error())
	}

	err = mapUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_sale_processes_active_global"`))
	if !apperr.Is(err, apperr.KindConflict) || !strings.Contains(err.Error(), "global") {
		t.Fatalf("expected global conflict, got %v", err)
	}

	if err := mapUniqueViolation(errors.New("connection reset")); err != nil {
		t.Fatalf("expected nil for unrelated errors, got %v", err)
	}
}
