package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"replaystats/internal/ballchasing"
	"replaystats/internal/pkg/export"
	"replaystats/internal/pkg/models"
	"replaystats/internal/pkg/notify"
	"replaystats/internal/pkg/storage"
)

// Pipeline downloads every replay in one group, archives the raw
// payloads and writes the per-replay summary for the tracked player.
// Replays are processed strictly one at a time, in listing order.
type Pipeline struct {
	client      *ballchasing.Client
	archive     *storage.ReplayArchive
	store       storage.SummaryStorage
	notifier    *notify.TelegramNotifier
	groupID     string
	playerName  string
	summaryPath string
}

// Config wires a pipeline together. Store and Notifier are optional.
type Config struct {
	Client      *ballchasing.Client
	Archive     *storage.ReplayArchive
	Store       storage.SummaryStorage
	Notifier    *notify.TelegramNotifier
	GroupID     string
	PlayerName  string
	SummaryPath string
}

// Result summarizes one finished run.
type Result struct {
	GroupID     string
	Found       int
	Rows        []models.SummaryRow
	Wins        int
	Losses      int
	SummaryPath string
}

// New creates a pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		client:      cfg.Client,
		archive:     cfg.Archive,
		store:       cfg.Store,
		notifier:    cfg.Notifier,
		groupID:     cfg.GroupID,
		playerName:  cfg.PlayerName,
		summaryPath: cfg.SummaryPath,
	}
}

// Run executes one full sync. Any fetch, archive, decode or extraction
// failure aborts the whole run: files archived before the failure stay
// on disk, and no summary is written.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	slog.Info("Listing group replays", "group", p.groupID)
	ids, err := p.client.ListGroupReplays(ctx, p.groupID)
	if err != nil {
		return nil, fmt.Errorf("list group replays: %w", err)
	}
	slog.Info("Found replays in group", "group", p.groupID, "count", len(ids))

	result := &Result{
		GroupID:     p.groupID,
		Found:       len(ids),
		SummaryPath: p.summaryPath,
	}

	if len(ids) == 0 {
		slog.Warn("No replays downloaded (group empty?)", "group", p.groupID)
		return result, nil
	}

	rows := make([]models.SummaryRow, 0, len(ids))
	for i, id := range ids {
		row, err := p.processReplay(ctx, id)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		slog.Debug("Processed replay", "replay", id, "n", i+1, "of", len(ids))
	}

	if err := export.WriteSummaryCSV(p.summaryPath, rows); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	result.Rows = rows
	for _, row := range rows {
		if row.Outcome == models.OutcomeWin {
			result.Wins++
		} else {
			result.Losses++
		}
	}

	if p.store != nil {
		if err := p.store.StoreRows(ctx, p.groupID, rows); err != nil {
			return nil, fmt.Errorf("store summary rows: %w", err)
		}
	}

	slog.Info("Replay sync complete",
		"group", p.groupID,
		"replays", len(rows),
		"wins", result.Wins,
		"losses", result.Losses,
		"summary", p.summaryPath)

	p.notifier.NotifySyncComplete(p.groupID, p.summaryPath, len(rows), result.Wins, result.Losses)

	return result, nil
}

// processReplay fetches one replay, archives the raw payload and
// extracts the tracked player's row.
func (p *Pipeline) processReplay(ctx context.Context, replayID string) (models.SummaryRow, error) {
	raw, err := p.client.GetReplay(ctx, replayID)
	if err != nil {
		return models.SummaryRow{}, fmt.Errorf("fetch replay %s: %w", replayID, err)
	}

	if err := p.archive.Store(replayID, raw); err != nil {
		return models.SummaryRow{}, fmt.Errorf("archive replay %s: %w", replayID, err)
	}

	replay, err := ballchasing.ParseReplay(raw)
	if err != nil {
		return models.SummaryRow{}, fmt.Errorf("replay %s: %w", replayID, err)
	}

	return ballchasing.ExtractPlayerRow(replay, p.playerName)
}
