package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sopra-fs21-group-4/sopra-server/domain"
)

// SummaryExists reports whether a finished game with this id was ever
// persisted. The registry consults it during id allocation so a dead
// game's id is never handed out again.
func (pgr *PostgresRepo) SummaryExists(ctx context.Context, gameId int64) (bool, error) {
	row := pgr.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM game_summaries WHERE game_id = $1)", gameId)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false, err
		}
		return false, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return exists, nil
}

// SaveGameSummary persists a finished game and its rounds in one
// transaction. Summaries are append-only; a second write for the same
// game id fails on the primary key.
func (pgr *PostgresRepo) SaveGameSummary(ctx context.Context, summary domain.GameSummary) error {
	tx, err := pgr.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"INSERT INTO game_summaries(game_id, settings, finished_at) VALUES($1, $2, $3)",
		summary.GameId, summary.Settings, summary.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	for _, round := range summary.Rounds {
		_, err = tx.Exec(ctx,
			"INSERT INTO game_round_summaries(game_id, round_index, suggestions, votes, tally, winner) VALUES($1, $2, $3, $4, $5, $6)",
			summary.GameId, round.Index, round.Suggestions, round.Votes, round.Tally, round.Winner,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return nil
}

func (pgr *PostgresRepo) GetGameSummary(ctx context.Context, gameId int64) (domain.GameSummary, error) {
	summary := domain.GameSummary{GameId: gameId}

	row := pgr.pool.QueryRow(ctx, "SELECT settings, finished_at FROM game_summaries WHERE game_id = $1", gameId)
	if err := row.Scan(&summary.Settings, &summary.FinishedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.GameSummary{}, domain.ErrSummaryNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.GameSummary{}, err
		default:
			return domain.GameSummary{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	rows, err := pgr.pool.Query(ctx,
		"SELECT round_index, suggestions, votes, tally, winner FROM game_round_summaries WHERE game_id = $1 ORDER BY round_index",
		gameId,
	)
	if err != nil {
		return domain.GameSummary{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var round domain.RoundSummary
		if err := rows.Scan(&round.Index, &round.Suggestions, &round.Votes, &round.Tally, &round.Winner); err != nil {
			return domain.GameSummary{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
		summary.Rounds = append(summary.Rounds, round)
	}
	if err := rows.Err(); err != nil {
		return domain.GameSummary{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	return summary, nil
}
