package area

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/tacgrid/internal/game/geo"
	"github.com/udisondev/tacgrid/internal/module"
)

// PropSave is one placed prop in a save.
type PropSave struct {
	ID        string
	Location  geo.Point
	Enabled   bool
	Active    bool
	Temporary bool
}

// MerchantSave is one merchant in a save.
type MerchantSave struct {
	ID           string
	LootList     string
	BuyFrac      float32
	SellFrac     float32
	RefreshEvery int64 // milliseconds
	LastRefresh  int64 // unix milliseconds
	Refreshes    int
}

// SaveState is the persisted part of an area. Triggers are aligned with
// the definition's trigger list; explored cells are packed 64 per word.
type SaveState struct {
	AreaID      string
	Seed        uint64
	OnLoadFired bool
	Explored    []uint64
	Props       []PropSave
	Triggers    []TriggerState
	Merchants   []MerchantSave
}

// Save snapshots the persisted part of the area.
func (s *State) Save() SaveState {
	save := SaveState{
		AreaID:      s.def.ID,
		Seed:        s.seed,
		OnLoadFired: s.onLoadFired,
		Explored:    PackExplored(s.pcExplored),
		Triggers:    s.Triggers(),
	}
	for _, p := range s.Props() {
		save.Props = append(save.Props, PropSave{
			ID:        p.Template.ID,
			Location:  p.Location,
			Enabled:   p.Enabled,
			Active:    p.Active,
			Temporary: p.Temporary,
		})
	}
	for _, m := range s.merchants {
		save.Merchants = append(save.Merchants, MerchantSave{
			ID:           m.ID,
			LootList:     m.LootList,
			BuyFrac:      m.BuyFrac,
			SellFrac:     m.SellFrac,
			RefreshEvery: m.RefreshEvery.Milliseconds(),
			LastRefresh:  m.LastRefresh.UnixMilli(),
			Refreshes:    m.Refreshes,
		})
	}
	return save
}

// PackExplored packs cells into 64-bit words: bit i of word w is cell i + w*64.
func PackExplored(explored []bool) []uint64 {
	words := make([]uint64, (len(explored)+63)/64)
	for i, v := range explored {
		if v {
			words[i/64] |= 1 << (i % 64)
		}
	}
	return words
}

// UnpackExplored ORs packed words into dst. Bits beyond len(dst) are ignored.
func UnpackExplored(words []uint64, dst []bool) {
	for w, word := range words {
		for i := range 64 {
			if word&(1<<i) == 0 {
				continue
			}
			idx := i + w*64
			if idx >= len(dst) {
				return
			}
			dst[idx] = true
		}
	}
}

// Load restores an area from a save. Entities are not part of the area
// save and must be re-added by the caller. More triggers than the
// definition declares is a structural mismatch; missing trailing triggers
// start from the definition's initial state.
func Load(catalog *module.Catalog, mgr TurnManager, areaID string, save SaveState) (*State, error) {
	def, err := catalog.Area(areaID)
	if err != nil {
		return nil, fmt.Errorf("loading area: %w", err)
	}
	if len(save.Triggers) > len(def.Triggers) {
		return nil, fmt.Errorf("%w: area %q save has %d triggers, definition has %d",
			ErrSaveMismatch, areaID, len(save.Triggers), len(def.Triggers))
	}

	s := New(def, catalog, mgr)
	s.reseed(save.Seed)
	s.onLoadFired = save.OnLoadFired
	UnpackExplored(save.Explored, s.pcExplored)

	for i, ps := range save.Props {
		tpl, err := catalog.Prop(ps.ID)
		if err != nil {
			return nil, fmt.Errorf("loading area %q prop %d: %w", areaID, i, err)
		}
		id, err := s.AddProp(tpl, ps.Location.X, ps.Location.Y, ps.Enabled, ps.Temporary)
		if err != nil {
			return nil, fmt.Errorf("loading area %q prop %d: %w", areaID, i, err)
		}
		prop := s.Prop(id)
		prop.Active = ps.Active
		s.updatePropOverlays(prop)
	}

	for i := range def.Triggers {
		state := TriggerState{Enabled: def.Triggers[i].InitiallyEnabled()}
		if i < len(save.Triggers) {
			state = save.Triggers[i]
		}
		s.addTrigger(i, state)
	}

	s.addTransitions()

	for _, ms := range save.Merchants {
		s.merchants = append(s.merchants, &MerchantState{
			ID:           ms.ID,
			LootList:     ms.LootList,
			BuyFrac:      ms.BuyFrac,
			SellFrac:     ms.SellFrac,
			RefreshEvery: msDuration(ms.RefreshEvery),
			LastRefresh:  unixMilli(ms.LastRefresh),
			Refreshes:    ms.Refreshes,
		})
	}

	slog.Info("area state loaded", "area", areaID, "props", len(save.Props), "merchants", len(save.Merchants))
	return s, nil
}
