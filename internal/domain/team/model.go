package team

// Team is a club as named in a match header.
type Team struct {
	ID      int64   `json:"team_id" validate:"required,gt=0"`
	Name    string  `json:"team_name" validate:"required"`
	LogoURL *string `json:"team_logo,omitempty"`
}
