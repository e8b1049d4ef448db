package player

import "strings"

// Player is a footballer identity shared across matches.
type Player struct {
	ID          int64   `json:"player_id" validate:"required,gt=0"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Nationality *string `json:"nationality,omitempty"`
}

// FullName joins first and last name. It is nil when both parts are empty.
func (p Player) FullName() *string {
	full := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if full == "" {
		return nil
	}
	return &full
}

// RosterEntry is a player as listed in one match lineup.
type RosterEntry struct {
	Player
	TeamID             int64  `json:"team_id" validate:"required,gt=0"`
	PositionID         *int   `json:"position_id"`
	UsualPositionID    *int   `json:"usual_position_id"`
	ShirtNumber        *int   `json:"shirt_number"`
	RawPosition        string `json:"raw_position"`
	NormalizedPosition Role   `json:"normalized_position" validate:"required,oneof=GK DF MF FW UNK"`
}
