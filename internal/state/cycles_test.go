package state

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/fernlabs/fern/internal/api"
	"github.com/fernlabs/fern/internal/bus"
)

// A tiny in-memory cycles endpoint: POST creates, GET lists, DELETE
// removes. Lets the tests drive real create -> refetch round trips.
func cyclesHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	var mu sync.Mutex
	cycles := []api.Cycle{{ID: "c1", StartDate: "2026-07-01"}}

	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			var in api.CycleInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			c := api.Cycle{ID: "c2", StartDate: in.StartDate}
			cycles = append(cycles, c)
			_ = json.NewEncoder(w).Encode(c)
		case http.MethodDelete:
			cycles = cycles[:0]
			w.WriteHeader(http.StatusNoContent)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"cycles": cycles,
				"total":  len(cycles),
			})
		}
	}
}

func TestCreateThenRefetchShowsItemOnce(t *testing.T) {
	o := testOps(t, cyclesHandler(t))
	ctx := context.Background()

	if res := o.LoadCycles(ctx, 1, 20); !res.OK {
		t.Fatalf("load: %s", res.Err)
	}
	if res := o.CreateCycle(ctx, api.CycleInput{StartDate: "2026-08-01"}); !res.OK {
		t.Fatalf("create: %s", res.Err)
	}

	// Optimistic prepend is visible immediately.
	col := o.Store.Cycles()
	if len(col.Items) != 2 || col.Items[0].ID != "c2" || col.Total != 2 {
		t.Fatalf("after create: %+v", col)
	}

	// Refetch replaces wholesale: the created item appears exactly once.
	if res := o.LoadCycles(ctx, 1, 20); !res.OK {
		t.Fatalf("refetch: %s", res.Err)
	}
	col = o.Store.Cycles()
	count := 0
	for _, c := range col.Items {
		if c.ID == "c2" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("created cycle appears %d times after refetch, want 1", count)
	}
	if col.Total != 2 {
		t.Errorf("total = %d, want 2", col.Total)
	}
}

func TestDeleteRemovesFromCollectionAndSingleton(t *testing.T) {
	o := testOps(t, cyclesHandler(t))
	cur := api.Cycle{ID: "c1", StartDate: "2026-07-01"}
	o.Store.SetCycles([]api.Cycle{cur}, 1, 1, 20)
	o.Store.SetCurrentCycle(&cur)

	res := o.DeleteCycle(context.Background(), "c1")
	if !res.OK {
		t.Fatalf("delete: %s", res.Err)
	}

	col := o.Store.Cycles()
	for _, c := range col.Items {
		if c.ID == "c1" {
			t.Error("deleted id still in collection")
		}
	}
	if col.Total != 0 {
		t.Errorf("total = %d, want 0", col.Total)
	}
	if o.Store.CurrentCycle() != nil {
		t.Error("current singleton still references the deleted cycle")
	}
}

func TestSingleFetchIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"c1","startDate":"2026-07-01","notes":"fresh"}`))
	}))
	defer srv.Close()
	s := New(bus.New())
	o := NewOps(s, api.New(srv.URL, s))
	s.SetCycles([]api.Cycle{{ID: "c1", Notes: "stale"}}, 1, 1, 20)

	ctx := context.Background()
	if res := o.FetchCycle(ctx, "c1"); !res.OK {
		t.Fatalf("first fetch: %s", res.Err)
	}
	first := s.Cycles()
	if res := o.FetchCycle(ctx, "c1"); !res.OK {
		t.Fatalf("second fetch: %s", res.Err)
	}
	second := s.Cycles()

	if len(first.Items) != len(second.Items) || first.Total != second.Total {
		t.Errorf("second fetch changed shape: %+v vs %+v", first, second)
	}
	if second.Items[0].Notes != "fresh" {
		t.Errorf("upsert did not replace: %+v", second.Items[0])
	}
}

func TestUpsertMissesAreNoOps(t *testing.T) {
	s := New(bus.New())
	s.SetCycles([]api.Cycle{{ID: "c1"}}, 1, 1, 20)

	s.UpsertCycle(api.Cycle{ID: "unknown"})

	col := s.Cycles()
	if len(col.Items) != 1 || col.Items[0].ID != "c1" {
		t.Errorf("upsert miss mutated the collection: %+v", col.Items)
	}
}

func TestUpdateMirrorsIntoCurrentSingleton(t *testing.T) {
	s := New(bus.New())
	s.SetCycles([]api.Cycle{{ID: "c1", Notes: "old"}}, 1, 1, 20)
	s.SetCurrentCycle(&api.Cycle{ID: "c1", Notes: "old"})

	s.UpsertCycle(api.Cycle{ID: "c1", Notes: "new"})

	if got := s.CurrentCycle().Notes; got != "new" {
		t.Errorf("current singleton notes = %q, want new", got)
	}
}

func TestUpsertLeavesReaderSnapshotsUntouched(t *testing.T) {
	s := New(bus.New())
	s.SetCycles([]api.Cycle{{ID: "c1", Notes: "original"}}, 1, 1, 50)
	s.SetMedications([]api.Medication{{ID: "m1", Name: "original"}}, 1, 1, 50)
	s.SetCommunities([]api.Community{{ID: "g1", Name: "original"}}, 1, 1, 50)

	cycles := s.Cycles()
	meds := s.Medications()
	communities := s.Communities()

	s.UpsertCycle(api.Cycle{ID: "c1", Notes: "updated"})
	s.UpsertMedication(api.Medication{ID: "m1", Name: "updated"})
	s.UpsertCommunity(api.Community{ID: "g1", Name: "updated"})

	if cycles.Items[0].Notes != "original" {
		t.Errorf("cycle snapshot mutated: %q", cycles.Items[0].Notes)
	}
	if meds.Items[0].Name != "original" {
		t.Errorf("medication snapshot mutated: %q", meds.Items[0].Name)
	}
	if communities.Items[0].Name != "original" {
		t.Errorf("community snapshot mutated: %q", communities.Items[0].Name)
	}

	if got := s.Cycles().Items[0].Notes; got != "updated" {
		t.Errorf("fresh cycle snapshot = %q, want updated", got)
	}
}
