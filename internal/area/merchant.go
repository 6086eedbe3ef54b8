package area

import (
	"log/slog"
	"time"
)

// MerchantState is a shop's persisted pricing and restock clock.
type MerchantState struct {
	ID           string
	LootList     string
	BuyFrac      float32
	SellFrac     float32
	RefreshEvery time.Duration
	LastRefresh  time.Time
	Refreshes    int
}

// CheckRefresh restocks the merchant when the refresh interval has
// elapsed. Returns true if a restock happened.
func (m *MerchantState) CheckRefresh(now time.Time) bool {
	if m.RefreshEvery <= 0 || now.Sub(m.LastRefresh) < m.RefreshEvery {
		return false
	}
	m.LastRefresh = now
	m.Refreshes++
	slog.Debug("merchant restocked", "merchant", m.ID, "refreshes", m.Refreshes)
	return true
}

// Merchant returns a merchant by id, or nil.
func (s *State) Merchant(id string) *MerchantState {
	for _, m := range s.merchants {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// GetOrCreateMerchant returns the merchant with the given id, restocking
// it if due, or creates it.
func (s *State) GetOrCreateMerchant(id, lootList string, buyFrac, sellFrac float32, refresh time.Duration, now time.Time) *MerchantState {
	if m := s.Merchant(id); m != nil {
		m.CheckRefresh(now)
		return m
	}

	slog.Info("creating merchant", "area", s.def.ID, "merchant", id)
	m := &MerchantState{
		ID:           id,
		LootList:     lootList,
		BuyFrac:      buyFrac,
		SellFrac:     sellFrac,
		RefreshEvery: refresh,
		LastRefresh:  now,
	}
	s.merchants = append(s.merchants, m)
	return m
}

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func unixMilli(ms int64) time.Time {
	return time.UnixMilli(ms)
}
