package ballchasing

import (
	"fmt"

	"replaystats/internal/pkg/models"
)

// ExtractPlayerRow builds the summary row for the tracked player from a
// decoded replay. Pure function: same replay in, same row out.
//
// The player is matched by exact display name, blue side first. The
// outcome is a win only when the player's side scored strictly more
// goals than the other side; a tie counts as a loss.
func ExtractPlayerRow(replay *Replay, playerName string) (models.SummaryRow, error) {
	your, opposing := &replay.Blue, &replay.Orange
	player := findPlayer(your, playerName)
	if player == nil {
		your, opposing = &replay.Orange, &replay.Blue
		player = findPlayer(your, playerName)
	}
	if player == nil {
		return models.SummaryRow{}, fmt.Errorf("replay %s: player %q is on neither team", replay.ID, playerName)
	}

	stats, err := trackedStats(replay.ID, player)
	if err != nil {
		return models.SummaryRow{}, err
	}

	yourGoals, err := teamGoals(replay.ID, your)
	if err != nil {
		return models.SummaryRow{}, err
	}
	opposingGoals, err := teamGoals(replay.ID, opposing)
	if err != nil {
		return models.SummaryRow{}, err
	}

	outcome := models.OutcomeLoss
	if yourGoals > opposingGoals {
		outcome = models.OutcomeWin
	}

	return models.SummaryRow{
		ReplayID: replay.ID,
		Date:     replay.Created,
		Outcome:  outcome,
		Shots:    stats.Core.Shots,
		Goals:    stats.Core.Goals,
		Saves:    stats.Core.Saves,
		Assists:  stats.Core.Assists,
		Demos:    stats.Demo.Inflicted,
		BoostBPM: stats.Boost.BPM,
		AvgSpeed: stats.Movement.AvgSpeed,
	}, nil
}

// findPlayer returns the team member with exactly this display name,
// or nil. Matching is case-sensitive.
func findPlayer(team *Team, name string) *Player {
	for i := range team.Players {
		if team.Players[i].Name == name {
			return &team.Players[i]
		}
	}
	return nil
}

// teamGoals sums core goals over one side. Every player must carry core
// stats; a replay with a stats-less player is malformed.
func teamGoals(replayID string, team *Team) (int, error) {
	total := 0
	for _, p := range team.Players {
		if p.Stats == nil || p.Stats.Core == nil {
			return 0, fmt.Errorf("replay %s: player %q has no core stats", replayID, p.Name)
		}
		total += p.Stats.Core.Goals
	}
	return total, nil
}

// trackedStats validates that every stat block the summary reads is
// present. Missing blocks are an error, never substituted with zeros.
func trackedStats(replayID string, player *Player) (*PlayerStats, error) {
	s := player.Stats
	switch {
	case s == nil:
		return nil, fmt.Errorf("replay %s: player %q has no stats", replayID, player.Name)
	case s.Core == nil:
		return nil, fmt.Errorf("replay %s: player %q has no core stats", replayID, player.Name)
	case s.Boost == nil:
		return nil, fmt.Errorf("replay %s: player %q has no boost stats", replayID, player.Name)
	case s.Movement == nil:
		return nil, fmt.Errorf("replay %s: player %q has no movement stats", replayID, player.Name)
	case s.Demo == nil:
		return nil, fmt.Errorf("replay %s: player %q has no demo stats", replayID, player.Name)
	}
	return s, nil
}
