package fplapi

import "time"

// =============================================================================
// Bootstrap Types
// =============================================================================

// Bootstrap is the slice of the bootstrap-static payload this service
// consumes.
type Bootstrap struct {
	Events       []Event       `json:"events"`
	Teams        []Team        `json:"teams"`
	Elements     []Element     `json:"elements"`
	ElementTypes []ElementType `json:"element_types"`
}

// Event is one gameweek as the upstream API describes it.
type Event struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	DeadlineTime time.Time `json:"deadline_time"`
	IsCurrent    bool      `json:"is_current"`
	IsNext       bool      `json:"is_next"`
	Finished     bool      `json:"finished"`
}

// Team is a club.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// Element is a player. NowCost is in tenths of a million.
type Element struct {
	ID          int    `json:"id"`
	FirstName   string `json:"first_name"`
	SecondName  string `json:"second_name"`
	WebName     string `json:"web_name"`
	Team        int    `json:"team"`
	ElementType int    `json:"element_type"`
	NowCost     int    `json:"now_cost"`
	TotalPoints int    `json:"total_points"`
	Form        string `json:"form"`
}

// ElementType maps a position id to its short name (GKP/DEF/MID/FWD).
type ElementType struct {
	ID                int    `json:"id"`
	SingularNameShort string `json:"singular_name_short"`
}

// =============================================================================
// Fixture Types
// =============================================================================

// Fixture is one scheduled match. Event is nil for unscheduled fixtures.
type Fixture struct {
	ID             int  `json:"id"`
	Event          *int `json:"event"`
	TeamH          int  `json:"team_h"`
	TeamA          int  `json:"team_a"`
	TeamHDifficulty int `json:"team_h_difficulty"`
	TeamADifficulty int `json:"team_a_difficulty"`
}

// =============================================================================
// Entry Types
// =============================================================================

// Entry is a manager's team metadata.
type Entry struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	PlayerFirstName string `json:"player_first_name"`
	PlayerLastName  string `json:"player_last_name"`
}

// Picks is a manager's squad selection for one gameweek.
type Picks struct {
	Picks        []Pick        `json:"picks"`
	EntryHistory *EntryHistory `json:"entry_history"`
}

// Pick is one slot of a selection. Position 1..11 start, 12..15 bench.
// Bank in EntryHistory is in tenths of a million.
type Pick struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

// EntryHistory is the manager's financial state for the gameweek.
type EntryHistory struct {
	Bank           int `json:"bank"`
	Value          int `json:"value"`
	EventTransfers int `json:"event_transfers"`
}

// EntryTransfer is one confirmed transfer from a manager's transfer
// history. Costs are in tenths of a million.
type EntryTransfer struct {
	ElementIn      int       `json:"element_in"`
	ElementInCost  int       `json:"element_in_cost"`
	ElementOut     int       `json:"element_out"`
	ElementOutCost int       `json:"element_out_cost"`
	Event          int       `json:"event"`
	Time           time.Time `json:"time"`
}

// History is a manager's season history.
type History struct {
	Current []HistoryEntry `json:"current"`
}

// HistoryEntry is one completed gameweek of a manager's season.
type HistoryEntry struct {
	Event              int `json:"event"`
	EventTransfers     int `json:"event_transfers"`
	EventTransfersCost int `json:"event_transfers_cost"`
}
