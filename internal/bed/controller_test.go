package bed

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

type memStore struct {
	values map[string]json.RawMessage
}

func newMemStore() *memStore {
	return &memStore{values: make(map[string]json.RawMessage)}
}

func (s *memStore) Get(_ context.Context, key string, dest any) bool {
	raw, ok := s.values[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (s *memStore) Set(_ context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.values[key] = raw
}

func newController(t *testing.T) *Controller {
	t.Helper()
	return New(context.Background(), newMemStore(), 85)
}

func TestInitialState(t *testing.T) {
	c := newController(t)
	state := c.State()

	if state.Position != (Position{Back: 0, Leg: 0, Height: 30}) {
		t.Errorf("unexpected initial position %+v", state.Position)
	}
	if state.IsLocked {
		t.Error("expected bed unlocked initially")
	}
	if state.BatteryLevel != 85 {
		t.Errorf("battery = %d, want 85", state.BatteryLevel)
	}
	if state.ActivePresetType != nil || state.ActiveCustomPresetID != nil {
		t.Error("expected no active preset initially")
	}
}

func TestSetPositionClamping(t *testing.T) {
	tests := []struct {
		name   string
		target Position
		want   Position
	}{
		{"in range", Position{Back: 45, Leg: 20, Height: 50}, Position{Back: 45, Leg: 20, Height: 50}},
		{"all above max", Position{Back: 1000, Leg: 1000, Height: 1000}, Position{Back: 90, Leg: 45, Height: 80}},
		{"all below min", Position{Back: -1000, Leg: -1000, Height: -1000}, Position{Back: 0, Leg: 0, Height: 20}},
		{"height floor is 20", Position{Back: 0, Leg: 0, Height: 0}, Position{Back: 0, Leg: 0, Height: 20}},
		{"exact bounds", Position{Back: 90, Leg: 45, Height: 80}, Position{Back: 90, Leg: 45, Height: 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t)
			c.SetPosition(tt.target)
			if got := c.State().Position; got != tt.want {
				t.Errorf("position = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAdjustSingleAxes(t *testing.T) {
	c := newController(t)
	c.SetPosition(Position{Back: 40, Leg: 10, Height: 50})

	c.AdjustBack(10)
	c.AdjustLeg(-5)
	c.AdjustHeight(-15)

	want := Position{Back: 50, Leg: 5, Height: 35}
	if got := c.State().Position; got != want {
		t.Errorf("position = %+v, want %+v", got, want)
	}
}

func TestAdjustIsRelative(t *testing.T) {
	c := newController(t)

	c.ApplyPreset(PresetReading)
	c.AdjustBack(10)

	if got := c.State().Position.Back; got != 55 {
		t.Errorf("back after +10 from reading = %d, want 55", got)
	}

	// Deltas past an axis bound clamp at the bound.
	c.AdjustBack(1000)
	c.AdjustLeg(-1000)
	c.AdjustHeight(1000)

	want := Position{Back: 90, Leg: 0, Height: 80}
	if got := c.State().Position; got != want {
		t.Errorf("position = %+v, want %+v", got, want)
	}
}

func TestLockBlocksMovement(t *testing.T) {
	c := newController(t)
	c.SetPosition(Position{Back: 30, Leg: 10, Height: 40})
	before := c.State().Position

	c.ToggleLock()
	if !c.State().IsLocked {
		t.Fatal("expected bed locked")
	}

	c.SetPosition(Position{Back: 60, Leg: 30, Height: 70})
	c.AdjustBack(10)
	c.AdjustLeg(5)
	c.AdjustHeight(25)
	c.ApplyPreset(PresetReading)

	if got := c.State().Position; got != before {
		t.Errorf("locked bed moved: %+v, want %+v", got, before)
	}
}

func TestToggleLockAlwaysWorks(t *testing.T) {
	c := newController(t)

	c.ToggleLock()
	c.ToggleLock()

	if c.State().IsLocked {
		t.Error("expected double toggle to restore unlocked state")
	}
}

func TestBatteryIgnoresLock(t *testing.T) {
	c := newController(t)
	c.ToggleLock()

	c.SetBatteryLevel(42)
	if got := c.State().BatteryLevel; got != 42 {
		t.Errorf("battery = %d, want 42", got)
	}

	c.SetBatteryLevel(150)
	if got := c.State().BatteryLevel; got != 100 {
		t.Errorf("battery = %d, want clamped 100", got)
	}

	c.SetBatteryLevel(-10)
	if got := c.State().BatteryLevel; got != 0 {
		t.Errorf("battery = %d, want clamped 0", got)
	}
}

func TestApplyBuiltinPresets(t *testing.T) {
	tests := []struct {
		preset PresetType
		want   Position
	}{
		{PresetSleep, Position{Back: 0, Leg: 0, Height: 30}},
		{PresetReading, Position{Back: 45, Leg: 15, Height: 50}},
		{PresetEating, Position{Back: 60, Leg: 30, Height: 70}},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			c := newController(t)
			c.ApplyPreset(tt.preset)

			state := c.State()
			if state.Position != tt.want {
				t.Errorf("position = %+v, want %+v", state.Position, tt.want)
			}
			if state.ActivePresetType == nil || *state.ActivePresetType != tt.preset {
				t.Errorf("active preset = %v, want %q", state.ActivePresetType, tt.preset)
			}
			if state.ActiveCustomPresetID != nil {
				t.Error("expected no active custom preset")
			}
		})
	}
}

func TestApplyUnknownPresetIsNoOp(t *testing.T) {
	c := newController(t)
	before := c.State()

	c.ApplyPreset(PresetType("hovering"))

	after := c.State()
	if after.Position != before.Position || after.ActivePresetType != nil {
		t.Error("unknown preset must not change state")
	}
}

func TestManualAdjustClearsActivePreset(t *testing.T) {
	c := newController(t)

	c.ApplyPreset(PresetReading)
	c.AdjustBack(5)

	state := c.State()
	if state.ActivePresetType != nil {
		t.Error("expected manual adjustment to clear the active preset")
	}
	if state.Position.Back != 50 {
		t.Errorf("back = %d, want 50", state.Position.Back)
	}
}

func TestCustomPresetLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	c := New(ctx, store, 85)

	id := c.AddCustomPreset(ctx, "Afternoon Nap", Position{Back: 35, Leg: 10, Height: 55})

	if !strings.HasPrefix(id, "custom-") {
		t.Errorf("unexpected preset id %q", id)
	}

	state := c.State()
	if len(state.CustomPresets) != 1 {
		t.Fatalf("expected 1 custom preset, got %d", len(state.CustomPresets))
	}
	saved := state.CustomPresets[0]
	if saved.Name != "Afternoon Nap" {
		t.Errorf("name = %q", saved.Name)
	}
	if saved.Position != (Position{Back: 35, Leg: 10, Height: 55}) {
		t.Errorf("saved position = %+v", saved.Position)
	}

	// Move away, then apply the saved preset.
	c.ApplyPreset(PresetSleep)
	c.ApplyCustomPreset(id)

	state = c.State()
	if state.Position != saved.Position {
		t.Errorf("position = %+v, want %+v", state.Position, saved.Position)
	}
	if state.ActiveCustomPresetID == nil || *state.ActiveCustomPresetID != id {
		t.Error("expected custom preset marked active")
	}
	if state.ActivePresetType != nil {
		t.Error("expected built-in preset marker cleared")
	}

	c.RemoveCustomPreset(ctx, id)

	state = c.State()
	if len(state.CustomPresets) != 0 {
		t.Errorf("expected empty preset list, got %d", len(state.CustomPresets))
	}
	if state.ActiveCustomPresetID != nil {
		t.Error("expected active marker cleared when its preset is removed")
	}
}

func TestRemoveUnknownCustomPresetIsNoOp(t *testing.T) {
	ctx := context.Background()
	c := newController(t)
	c.AddCustomPreset(ctx, "Keep Me", Position{Back: 10, Leg: 5, Height: 40})

	c.RemoveCustomPreset(ctx, "custom-0-deadbeef")

	if got := len(c.State().CustomPresets); got != 1 {
		t.Errorf("expected 1 preset after removing unknown id, got %d", got)
	}
}

func TestApplyUnknownCustomPresetIsNoOp(t *testing.T) {
	c := newController(t)
	before := c.State().Position

	c.ApplyCustomPreset("custom-0-deadbeef")

	if got := c.State().Position; got != before {
		t.Error("unknown custom preset must not move the bed")
	}
}

func TestAddCustomPresetClampsPosition(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	id := c.AddCustomPreset(ctx, "Out Of Range", Position{Back: 1000, Leg: -10, Height: 0})

	var saved CustomPreset
	for _, p := range c.State().CustomPresets {
		if p.ID == id {
			saved = p
		}
	}
	if saved.Position != (Position{Back: 90, Leg: 0, Height: 20}) {
		t.Errorf("saved position = %+v", saved.Position)
	}
}

func TestAddCustomPresetWhileLocked(t *testing.T) {
	ctx := context.Background()
	c := newController(t)
	c.ToggleLock()

	id := c.AddCustomPreset(ctx, "Saved While Locked", Position{Back: 30, Leg: 10, Height: 50})
	if id == "" {
		t.Fatal("expected saving to work while locked")
	}
	if got := len(c.State().CustomPresets); got != 1 {
		t.Errorf("expected 1 preset, got %d", got)
	}
}

func TestCustomPresetsPersistAcrossRestart(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	first := New(ctx, store, 85)
	id := first.AddCustomPreset(ctx, "Evening", Position{Back: 20, Leg: 5, Height: 45})

	second := New(ctx, store, 85)

	presets := second.State().CustomPresets
	if len(presets) != 1 {
		t.Fatalf("expected 1 restored preset, got %d", len(presets))
	}
	if presets[0].ID != id || presets[0].Name != "Evening" {
		t.Errorf("restored preset = %+v", presets[0])
	}

	second.ApplyCustomPreset(id)
	if got := second.State().Position; got != (Position{Back: 20, Leg: 5, Height: 45}) {
		t.Errorf("position = %+v", got)
	}
}

func TestOnChangeNotifications(t *testing.T) {
	c := newController(t)

	var events []State
	c.OnChange(func(s State) { events = append(events, s) })

	c.AdjustBack(30)
	c.ToggleLock()
	c.AdjustBack(60) // locked, no commit

	if len(events) != 2 {
		t.Fatalf("expected 2 change events, got %d", len(events))
	}
	if events[0].Position.Back != 30 {
		t.Errorf("first event back = %d, want 30", events[0].Position.Back)
	}
	if !events[1].IsLocked {
		t.Error("second event should reflect the lock")
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	c.ApplyPreset(PresetEating)
	c.AddCustomPreset(ctx, "Evening", Position{Back: 20, Leg: 5, Height: 45})
	c.ToggleLock()
	c.SetBatteryLevel(42)

	c.Reset()

	state := c.State()
	if state.Position != (Position{Back: 0, Leg: 0, Height: 30}) {
		t.Errorf("position = %+v", state.Position)
	}
	if state.IsLocked {
		t.Error("expected unlocked after reset")
	}
	if len(state.CustomPresets) != 0 {
		t.Errorf("expected no custom presets, got %d", len(state.CustomPresets))
	}
	if state.ActivePresetType != nil || state.ActiveCustomPresetID != nil {
		t.Error("expected preset markers cleared")
	}
	if state.BatteryLevel != 42 {
		t.Errorf("battery = %d, want 42 (telemetry survives reset)", state.BatteryLevel)
	}
}

func TestPresetIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	c := newController(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id := c.AddCustomPreset(ctx, "p", Position{Back: 10, Leg: 5, Height: 40})
		if seen[id] {
			t.Fatalf("duplicate preset id %q", id)
		}
		seen[id] = true
	}
}
