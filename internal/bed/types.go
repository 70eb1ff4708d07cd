package bed

import "time"

// Position axis bounds in degrees/centimetres.
const (
	BackMin = 0
	BackMax = 90

	LegMin = 0
	LegMax = 45

	HeightMin = 20
	HeightMax = 80

	BatteryMin = 0
	BatteryMax = 100
)

// Position describes the bed's articulation on its three axes.
type Position struct {
	// Back is the backrest angle in degrees.
	Back int `json:"back"`
	// Leg is the leg-rest angle in degrees.
	Leg int `json:"leg"`
	// Height is the platform height in centimetres.
	Height int `json:"height"`
}

// Clamped returns the position with every axis forced into its bounds.
func (p Position) Clamped() Position {
	return Position{
		Back:   clamp(p.Back, BackMin, BackMax),
		Leg:    clamp(p.Leg, LegMin, LegMax),
		Height: clamp(p.Height, HeightMin, HeightMax),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PresetType identifies a built-in position preset.
type PresetType string

const (
	PresetSleep   PresetType = "sleep"
	PresetReading PresetType = "reading"
	PresetEating  PresetType = "eating"
)

// builtinPresets maps each built-in preset to its target position.
var builtinPresets = map[PresetType]Position{
	PresetSleep:   {Back: 0, Leg: 0, Height: 30},
	PresetReading: {Back: 45, Leg: 15, Height: 50},
	PresetEating:  {Back: 60, Leg: 30, Height: 70},
}

// BuiltinPresetPosition returns the target for a built-in preset.
func BuiltinPresetPosition(t PresetType) (Position, bool) {
	pos, ok := builtinPresets[t]
	return pos, ok
}

// CustomPreset is a user-saved bed position.
type CustomPreset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  Position  `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// State is the full observable state of the bed.
//
// At most one of ActivePresetType and ActiveCustomPresetID is non-nil;
// any manual adjustment clears both.
type State struct {
	Position             Position       `json:"position"`
	IsLocked             bool           `json:"is_locked"`
	BatteryLevel         int            `json:"battery_level"`
	ActivePresetType     *PresetType    `json:"active_preset_type"`
	ActiveCustomPresetID *string        `json:"active_custom_preset_id"`
	CustomPresets        []CustomPreset `json:"custom_presets"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	if s.ActivePresetType != nil {
		t := *s.ActivePresetType
		out.ActivePresetType = &t
	}
	if s.ActiveCustomPresetID != nil {
		id := *s.ActiveCustomPresetID
		out.ActiveCustomPresetID = &id
	}
	if s.CustomPresets != nil {
		out.CustomPresets = make([]CustomPreset, len(s.CustomPresets))
		copy(out.CustomPresets, s.CustomPresets)
	}
	return out
}
