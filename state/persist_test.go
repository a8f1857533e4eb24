package state

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/event"
)

func testPersister(t *testing.T) *RedisPersister {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisPersister(client, 2*time.Second)
}

func TestPersisterRoundTrip(t *testing.T) {
	p := testPersister(t)

	saved := TutorialProgress{
		ViewedLearnings: []string{"L001", "L006"},
		TutorialMode:    true,
	}
	if err := p.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := p.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.ViewedLearnings) != 2 || loaded.ViewedLearnings[1] != "L006" {
		t.Errorf("Loaded learnings = %v", loaded.ViewedLearnings)
	}
	if !loaded.TutorialMode {
		t.Error("TutorialMode not persisted")
	}
}

func TestPersisterMissingKey(t *testing.T) {
	p := testPersister(t)

	loaded, err := p.Load()
	if err != nil {
		t.Fatalf("Load() on empty store error = %v", err)
	}
	if loaded.ViewedLearnings != nil || loaded.TutorialMode {
		t.Errorf("Expected zero progress, got %+v", loaded)
	}
}

func TestStoreRestoresViewedLearnings(t *testing.T) {
	p := testPersister(t)
	if err := p.Save(TutorialProgress{ViewedLearnings: []string{"L003"}, TutorialMode: true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	store := NewStore(event.NewBus(), p)

	viewed := store.GetStrings(KeyViewedLearnings)
	if len(viewed) != 1 || viewed[0] != "L003" {
		t.Errorf("Expected restored learnings, got %v", viewed)
	}
	// Tutorial mode stays off until the user activates it.
	if store.GetBool(KeyTutorialMode) {
		t.Error("TutorialMode must not be auto-restored")
	}
}

func TestMarkLearningViewedPersists(t *testing.T) {
	p := testPersister(t)
	store := NewStore(event.NewBus(), p)

	store.MarkLearningViewed("L001")
	store.MarkLearningViewed("L001") // idempotent

	viewed := store.GetStrings(KeyViewedLearnings)
	if len(viewed) != 1 {
		t.Errorf("Expected one viewed learning, got %v", viewed)
	}

	loaded, err := p.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.ViewedLearnings) != 1 || loaded.ViewedLearnings[0] != "L001" {
		t.Errorf("Persisted learnings = %v", loaded.ViewedLearnings)
	}
}
