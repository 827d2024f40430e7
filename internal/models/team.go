package models

// Team represents a team profile.
type Team struct {
	ID           int64  `db:"id" json:"id" validate:"required"`
	FullName     string `db:"full_name" json:"full_name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
	City         string `db:"city" json:"city"`
	Conference   string `db:"conference" json:"conference"`
	Division     string `db:"division" json:"division"`
}
