package bed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// presetsKey is the storage key for the saved custom preset collection.
const presetsKey = "custom_presets"

// Store is the persistence surface the controller needs.
// Satisfied by storage.Store.
type Store interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any)
}

// Logger defines the logging interface used by the controller.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}

// ChangeFunc receives a copy of the state after every committed change.
type ChangeFunc func(State)

// Controller owns the bed state and enforces its movement rules.
//
// Position changes are clamped to axis bounds and refused while the bed
// is locked. Refusals are silent; the state simply does not change. The
// lock toggle and battery updates bypass the lock. Custom presets are
// mirrored to the store as a whole collection on every mutation.
//
// All methods are safe for concurrent use.
type Controller struct {
	store    Store
	logger   Logger
	onChange ChangeFunc

	mu    sync.RWMutex
	state State
}

// New creates a bed controller, loading any saved custom presets.
// initialBattery is clamped into 0..100.
func New(ctx context.Context, store Store, initialBattery int) *Controller {
	c := &Controller{
		store:  store,
		logger: noopLogger{},
		state: State{
			Position:     Position{Back: 0, Leg: 0, Height: 30},
			BatteryLevel: clamp(initialBattery, BatteryMin, BatteryMax),
		},
	}

	var presets []CustomPreset
	if store.Get(ctx, presetsKey, &presets) {
		c.state.CustomPresets = presets
	}

	return c
}

// SetLogger sets the logger for the controller.
func (c *Controller) SetLogger(logger Logger) {
	c.logger = logger
}

// OnChange registers a callback invoked after every committed state
// change. Must be called before the controller is shared.
func (c *Controller) OnChange(fn ChangeFunc) {
	c.onChange = fn
}

// State returns a copy of the current bed state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// SetPosition moves all three axes at once. The target is clamped to
// axis bounds. Ignored while the bed is locked. Clears any active
// preset marker.
func (c *Controller) SetPosition(target Position) {
	c.mu.Lock()
	if c.state.IsLocked {
		c.mu.Unlock()
		return
	}
	c.state.Position = target.Clamped()
	c.clearActivePresets()
	c.logger.Debug("position set",
		"back", c.state.Position.Back,
		"leg", c.state.Position.Leg,
		"height", c.state.Position.Height)
	c.commit()
}

// AdjustBack raises or lowers the backrest by delta degrees. The
// result is clamped. Lock-gated, clears preset markers.
func (c *Controller) AdjustBack(delta int) {
	c.adjustAxis(func(p *Position) { p.Back = clamp(p.Back+delta, BackMin, BackMax) })
}

// AdjustLeg raises or lowers the leg rest by delta degrees. The result
// is clamped. Lock-gated, clears preset markers.
func (c *Controller) AdjustLeg(delta int) {
	c.adjustAxis(func(p *Position) { p.Leg = clamp(p.Leg+delta, LegMin, LegMax) })
}

// AdjustHeight raises or lowers the platform by delta centimetres. The
// result is clamped. Lock-gated, clears preset markers.
func (c *Controller) AdjustHeight(delta int) {
	c.adjustAxis(func(p *Position) { p.Height = clamp(p.Height+delta, HeightMin, HeightMax) })
}

func (c *Controller) adjustAxis(apply func(*Position)) {
	c.mu.Lock()
	if c.state.IsLocked {
		c.mu.Unlock()
		return
	}
	apply(&c.state.Position)
	c.clearActivePresets()
	c.commit()
}

// ToggleLock flips the movement lock. Never refused.
func (c *Controller) ToggleLock() {
	c.mu.Lock()
	c.state.IsLocked = !c.state.IsLocked
	c.logger.Info("lock toggled", "locked", c.state.IsLocked)
	c.commit()
}

// SetBatteryLevel records the battery charge, clamped into 0..100.
// Not gated by the lock.
func (c *Controller) SetBatteryLevel(level int) {
	c.mu.Lock()
	c.state.BatteryLevel = clamp(level, BatteryMin, BatteryMax)
	c.commit()
}

// ApplyPreset moves the bed to a built-in preset position and marks the
// preset active. Ignored while locked or when the preset is unknown.
func (c *Controller) ApplyPreset(t PresetType) {
	pos, ok := BuiltinPresetPosition(t)
	if !ok {
		return
	}

	c.mu.Lock()
	if c.state.IsLocked {
		c.mu.Unlock()
		return
	}
	c.state.Position = pos
	c.state.ActivePresetType = &t
	c.state.ActiveCustomPresetID = nil
	c.logger.Info("preset applied", "preset", t)
	c.commit()
}

// AddCustomPreset saves pos under name and returns the new preset's id.
// The position is clamped to axis bounds. Works while locked; saving is
// not a movement.
func (c *Controller) AddCustomPreset(ctx context.Context, name string, pos Position) string {
	c.mu.Lock()
	preset := CustomPreset{
		ID:        newPresetID(),
		Name:      name,
		Position:  pos.Clamped(),
		CreatedAt: time.Now().UTC(),
	}
	c.state.CustomPresets = append(c.state.CustomPresets, preset)
	presets := make([]CustomPreset, len(c.state.CustomPresets))
	copy(presets, c.state.CustomPresets)
	c.logger.Info("custom preset saved", "id", preset.ID, "name", name)
	c.commit()

	c.store.Set(ctx, presetsKey, presets)
	return preset.ID
}

// RemoveCustomPreset deletes a saved preset by id. Unknown ids are
// ignored. If the removed preset was active, the marker is cleared.
func (c *Controller) RemoveCustomPreset(ctx context.Context, id string) {
	c.mu.Lock()

	idx := -1
	for i, p := range c.state.CustomPresets {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return
	}

	c.state.CustomPresets = append(c.state.CustomPresets[:idx], c.state.CustomPresets[idx+1:]...)
	if c.state.ActiveCustomPresetID != nil && *c.state.ActiveCustomPresetID == id {
		c.state.ActiveCustomPresetID = nil
	}
	presets := make([]CustomPreset, len(c.state.CustomPresets))
	copy(presets, c.state.CustomPresets)
	c.logger.Info("custom preset removed", "id", id)
	c.commit()

	c.store.Set(ctx, presetsKey, presets)
}

// ApplyCustomPreset moves the bed to a saved preset's position and marks
// it active. Ignored while locked or when the id is unknown.
func (c *Controller) ApplyCustomPreset(id string) {
	c.mu.Lock()
	if c.state.IsLocked {
		c.mu.Unlock()
		return
	}

	var target *CustomPreset
	for i := range c.state.CustomPresets {
		if c.state.CustomPresets[i].ID == id {
			target = &c.state.CustomPresets[i]
			break
		}
	}
	if target == nil {
		c.mu.Unlock()
		return
	}

	c.state.Position = target.Position.Clamped()
	activeID := target.ID
	c.state.ActiveCustomPresetID = &activeID
	c.state.ActivePresetType = nil
	c.logger.Info("custom preset applied", "id", id)
	c.commit()
}

// Reset restores the factory state: default position, unlocked, no
// preset markers, empty custom preset collection. The battery level is
// telemetry and survives. The caller is expected to clear the store
// alongside this.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.state.Position = Position{Back: 0, Leg: 0, Height: 30}
	c.state.IsLocked = false
	c.state.CustomPresets = nil
	c.clearActivePresets()
	c.logger.Info("bed state reset")
	c.commit()
}

// clearActivePresets drops both preset markers. Caller holds the lock.
func (c *Controller) clearActivePresets() {
	c.state.ActivePresetType = nil
	c.state.ActiveCustomPresetID = nil
}

// commit publishes the state change and releases the lock.
func (c *Controller) commit() {
	snapshot := c.state.Clone()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

// newPresetID builds a time-sortable id with a random suffix.
func newPresetID() string {
	return fmt.Sprintf("custom-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
