package state

import (
	"testing"
	"time"

	"github.com/fernlabs/fern/internal/bus"
)

func TestStatusOverwriteSemantics(t *testing.T) {
	st := NewStatus(nil)

	st.SetLoading(FeatureChat, true)
	st.SetLoading(FeatureChat, false)
	if st.Snapshot(FeatureChat).Loading {
		t.Error("loading = true after overwrite to false")
	}

	st.SetError(FeatureChat, "first")
	st.SetError(FeatureChat, "second")
	if got := st.Snapshot(FeatureChat).Error; got != "second" {
		t.Errorf("error = %q, want last write", got)
	}
}

func TestErrorPersistsUntilExplicitClearOrSuccess(t *testing.T) {
	st := NewStatus(nil)
	st.Fail(FeatureAuth, "bad credentials")

	// Loading toggles do not touch the error slot.
	st.SetLoading(FeatureAuth, true)
	st.SetLoading(FeatureAuth, false)
	if st.Snapshot(FeatureAuth).Error != "bad credentials" {
		t.Error("error cleared by loading toggle")
	}

	st.ClearError(FeatureAuth)
	if st.Snapshot(FeatureAuth).Error != "" {
		t.Error("explicit clear did not reset the error")
	}
}

func TestStatusPublishesPerFeature(t *testing.T) {
	b := bus.New()
	st := NewStatus(b)
	ch, unsub := b.Subscribe("status.cycles", 10)
	defer unsub()

	st.SetLoading(FeatureChat, true) // different feature, must not arrive
	st.SetLoading(FeatureCycles, true)

	select {
	case evt := <-ch:
		if evt.Kind != "status.cycles" {
			t.Errorf("kind = %q", evt.Kind)
		}
		snap, ok := evt.Payload.(StatusSnapshot)
		if !ok || !snap.Loading {
			t.Errorf("payload = %#v, want loading snapshot", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for status event")
	}

	select {
	case evt := <-ch:
		t.Errorf("cross-feature event leaked: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}
