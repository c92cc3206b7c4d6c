package models

// Outcome is the tracked player's result in one replay
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// SummaryRow represents per-replay stats extracted for the tracked player
type SummaryRow struct {
	ReplayID string  `json:"id"`
	Date     string  `json:"date"` // upload timestamp as returned by the API
	Outcome  Outcome `json:"outcome"`
	Shots    int     `json:"shots"`
	Goals    int     `json:"goals"`
	Saves    int     `json:"saves"`
	Assists  int     `json:"assists"`
	Demos    int     `json:"demos"` // demolitions inflicted
	BoostBPM float64 `json:"boost_bpm"`
	AvgSpeed float64 `json:"avg_speed"`
}
