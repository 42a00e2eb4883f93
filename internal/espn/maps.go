package espn

import (
	"fmt"
	"sync"
)

// SportMaps holds the per-sport translation tables. Positions and LineupSlots
// are deliberately disjoint concepts: Positions keys a player's
// defaultPositionId (what the player is), LineupSlots keys lineupSlotId and
// the members of eligibleSlots (where the player may sit). Baseball id 6 is
// the canonical example: SS as a position, MI as a slot.
type SportMaps struct {
	GameID        string
	Positions     map[int]string
	LineupSlots   map[int]string
	ProTeams      map[int]string
	PositionSlots map[string][]int
	Stats         map[int]string
}

var sportMaps = map[string]*SportMaps{
	"football":   footballMaps,
	"baseball":   baseballMaps,
	"basketball": basketballMaps,
	"hockey":     hockeyMaps,
}

// MapsFor returns the tables for a sport, or ok=false for an unknown sport.
func MapsFor(sport string) (*SportMaps, bool) {
	m, ok := sportMaps[sport]
	return m, ok
}

// unknownIDs remembers ids we already warned about so each unknown id is
// logged once per process.
var unknownIDs sync.Map

func noteUnknown(kind, sport string, id int) bool {
	key := fmt.Sprintf("%s/%s/%d", kind, sport, id)
	_, seen := unknownIDs.LoadOrStore(key, struct{}{})
	return !seen
}

// PositionName maps a defaultPositionId, falling back to POS_<n>.
func (m *SportMaps) PositionName(sport string, id int) string {
	if name, ok := m.Positions[id]; ok {
		return name
	}
	if noteUnknown("position", sport, id) {
		pkgLogger().Warn("unknown position id", "sport", sport, "id", id)
	}
	return fmt.Sprintf("POS_%d", id)
}

// SlotName maps a lineupSlotId, falling back to SLOT_<n>.
func (m *SportMaps) SlotName(sport string, id int) string {
	if name, ok := m.LineupSlots[id]; ok {
		return name
	}
	if noteUnknown("slot", sport, id) {
		pkgLogger().Warn("unknown lineup slot id", "sport", sport, "id", id)
	}
	return fmt.Sprintf("SLOT_%d", id)
}

// ProTeamName maps a proTeamId, falling back to FA (unsigned/free agent).
func (m *SportMaps) ProTeamName(id int) string {
	if name, ok := m.ProTeams[id]; ok {
		return name
	}
	return "FA"
}

// StatName maps a numeric stat id, falling back to STAT_<n>.
func (m *SportMaps) StatName(id int) string {
	if name, ok := m.Stats[id]; ok {
		return name
	}
	return fmt.Sprintf("STAT_%d", id)
}

// EligiblePositions maps eligibleSlots through the lineup-slot table. Slots
// with no known meaning (e.g. baseball 18/21/22) are dropped rather than
// rendered as fallbacks.
func (m *SportMaps) EligiblePositions(slotIDs []int) []string {
	out := make([]string, 0, len(slotIDs))
	for _, id := range slotIDs {
		if name, ok := m.LineupSlots[id]; ok {
			out = append(out, name)
		}
	}
	return out
}

// SlotsForPosition resolves a caller-facing position name to the slot ids
// used in the free-agent filter. Unknown names fall back to ALL.
func (m *SportMaps) SlotsForPosition(position string) []int {
	if slots, ok := m.PositionSlots[position]; ok {
		return slots
	}
	return m.PositionSlots["ALL"]
}
