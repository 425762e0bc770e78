package store

import (
	"math/rand"
	"reflect"
	"sync"
	"testing"

	"plug-explorer/src/models"
)

func TestObservableNotifiesInOrder(t *testing.T) {
	o := NewObservable(0)
	var got []string

	o.Subscribe(func(v int) { got = append(got, "a") })
	o.Subscribe(func(v int) { got = append(got, "b") })
	o.Set(1)

	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("notification order = %v", got)
	}
	if o.Get() != 1 {
		t.Errorf("Get = %d, want 1", o.Get())
	}
}

func TestObservableDispose(t *testing.T) {
	o := NewObservable("x")
	calls := 0
	dispose := o.Subscribe(func(string) { calls++ })

	o.Set("y")
	dispose()
	dispose() // idempotent
	o.Set("z")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if o.Listeners() != 0 {
		t.Errorf("listeners = %d, want 0", o.Listeners())
	}
}

func TestObservableListenerCanRead(t *testing.T) {
	o := NewObservable(0)
	var seen int
	o.Subscribe(func(v int) { seen = o.Get() })
	o.Set(7)
	if seen != 7 {
		t.Errorf("listener read %d, want 7", seen)
	}
}

func TestNewHomeStoreDefaults(t *testing.T) {
	s := NewHomeStore()
	snap := s.Get()
	if snap.BlockListTable == nil {
		t.Fatal("block table must be initialised, not nil")
	}
	if !reflect.DeepEqual(snap, models.NewHomeSnapshot()) {
		t.Errorf("unexpected defaults %+v", snap)
	}
}

func TestMergeKeepsAbsentFields(t *testing.T) {
	s := NewHomeStore()
	s.Merge(models.MHomePatch{BlockHeight: models.String("100"), Price: models.String("1.5")})
	s.Merge(models.MHomePatch{PendingBlockVolume: models.String("3")})

	snap := s.Get()
	if snap.BlockHeight != "100" || snap.Price != "1.5" || snap.PendingBlockVolume != "3" {
		t.Errorf("merge lost fields: %+v", snap)
	}
}

func TestEmptyPatchDoesNotNotify(t *testing.T) {
	s := NewHomeStore()
	calls := 0
	s.Subscribe(func(models.MHomeSnapshot) { calls++ })
	s.Merge(models.MHomePatch{})
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

// For any sequence of partial merges, the fields a merge does not mention keep
// whatever value they had before it.
func TestMergePropertyRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewHomeStore()

	for i := 0; i < 500; i++ {
		before := s.Get()
		patch := randomPatch(rng)
		s.Merge(patch)
		after := s.Get()

		want := patch.Apply(before)
		if !reflect.DeepEqual(after, want) {
			t.Fatalf("step %d: got %+v, want %+v", i, after, want)
		}
		if patch.BlockHeight == nil && after.BlockHeight != before.BlockHeight {
			t.Fatalf("step %d: absent BlockHeight changed", i)
		}
		if patch.PledgeRate == nil && after.PledgeRate != before.PledgeRate {
			t.Fatalf("step %d: absent PledgeRate changed", i)
		}
		if patch.BlockListTable == nil && !reflect.DeepEqual(after.BlockListTable, before.BlockListTable) {
			t.Fatalf("step %d: absent BlockListTable changed", i)
		}
	}
}

func TestConcurrentMergesDoNotTear(t *testing.T) {
	s := NewHomeStore()
	var wg sync.WaitGroup
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if w == 0 {
					s.Merge(models.MHomePatch{BlockHeight: models.String("h")})
				} else {
					s.Merge(models.MHomePatch{Price: models.String("p")})
				}
			}
		}(w)
	}
	wg.Wait()

	snap := s.Get()
	if snap.BlockHeight != "h" || snap.Price != "p" {
		t.Errorf("independent producers clobbered each other: %+v", snap)
	}
}

func randomPatch(rng *rand.Rand) models.MHomePatch {
	var p models.MHomePatch
	maybe := func() bool { return rng.Intn(3) == 0 }
	str := func() *string { return models.String(string(rune('a' + rng.Intn(26)))) }
	num := func() *float64 { return models.Float(rng.Float64()) }

	if maybe() {
		p.BlockHeight = str()
	}
	if maybe() {
		p.TransactionVolume = str()
	}
	if maybe() {
		p.PendingBlockVolume = str()
	}
	if maybe() {
		p.TransactionRate = num()
	}
	if maybe() {
		p.Price = str()
	}
	if maybe() {
		p.PledgeRate = num()
	}
	if maybe() {
		p.HistoryMaxVolume = str()
	}
	if maybe() {
		p.BlockListTable = []models.MTableRow{{Key: str2(rng)}}
	}
	return p
}

func str2(rng *rand.Rand) string {
	return string(rune('A' + rng.Intn(26)))
}
