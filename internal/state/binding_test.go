package state

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/fernlabs/fern/internal/api"
	"github.com/fernlabs/fern/internal/bus"
)

func TestBindingExecuteAndStatus(t *testing.T) {
	s := New(bus.New())
	b := Bind(s, FeatureMedications, func(ctx context.Context, name string) (api.Medication, error) {
		return api.Medication{ID: "m1", Name: name}, nil
	}, func(m api.Medication) {
		s.PrependMedication(m)
	})
	defer b.Close()

	res := b.Execute(context.Background(), "Letrozole")
	if !res.OK || res.Data.ID != "m1" {
		t.Fatalf("Execute = %+v", res)
	}
	if b.Loading() {
		t.Error("Loading() = true after settle")
	}
	if b.Err() != "" {
		t.Errorf("Err() = %q after success", b.Err())
	}
	if got := s.Medications(); len(got.Items) != 1 || got.Total != 1 {
		t.Errorf("commit did not apply: %+v", got)
	}
}

func TestBindingFailureSurfacesError(t *testing.T) {
	s := New(bus.New())
	b := Bind(s, FeaturePartner, func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, &api.APIError{Status: 409, Message: "Invite already accepted"}
	}, nil)
	defer b.Close()

	res := b.Execute(context.Background(), struct{}{})
	if res.OK {
		t.Fatal("expected failure")
	}
	if b.Err() != "Invite already accepted" {
		t.Errorf("Err() = %q", b.Err())
	}

	b.ClearErr()
	if b.Err() != "" {
		t.Error("ClearErr did not reset the slot")
	}
}

func TestBindingSignalsOnStatusAndDomainChanges(t *testing.T) {
	s := New(bus.New())
	b := Bind(s, FeatureCycles, func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, nil
	}, nil)
	defer b.Close()

	drain := func() {
		select {
		case <-b.Changes():
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for change signal")
		}
	}

	s.Status().SetLoading(FeatureCycles, true)
	drain()

	s.SetCycles(nil, 0, 1, 20)
	drain()

	// Another feature's mutation must not signal this binding.
	s.SetMedications(nil, 0, 1, 20)
	select {
	case <-b.Changes():
		t.Error("binding signaled for an unrelated feature")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCyclesBindingLoadsPageIntoStore(t *testing.T) {
	o := testOps(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"cycles":[{"id":"c1","startDate":"2026-08-01"}],"total":7}`))
	})
	b := o.CyclesBinding()
	defer b.Close()

	res := b.Execute(context.Background(), ListPage{Page: 1, Limit: 50})
	if !res.OK {
		t.Fatalf("Execute failed: %s", res.Err)
	}

	col := o.Store.Cycles()
	if len(col.Items) != 1 || col.Items[0].ID != "c1" || col.Total != 7 {
		t.Errorf("store not updated: %+v", col)
	}
	if b.Loading() || b.Err() != "" {
		t.Errorf("status not settled: loading=%v err=%q", b.Loading(), b.Err())
	}

	// The load must have signaled the change channel for a re-render.
	select {
	case <-b.Changes():
	case <-time.After(time.Second):
		t.Fatal("no change signal after load")
	}
}
