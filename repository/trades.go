package repository

import (
	"context"
	"fmt"

	"shadowstrike/models"
	"shadowstrike/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const tradeColumns = `id, account_id, symbol, option_type, strike, entry_price, quantity,
	entry_date, status, broker_fee, stop_loss, target_price, exit_price, exit_date,
	current_price, pnl`

// GetTrades returns an account's trades, newest first
func (r *Repository) GetTrades(ctx context.Context, accountID string, limit int) ([]models.Trade, error) {
	if limit <= 0 {
		limit = 50
	}

	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveDB("select", "trades")

	rows, err := r.db.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE account_id = $1
		ORDER BY entry_date DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		observability.GetMetrics().RecordDBError("select", "trades")
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetOpenTrades returns an account's open trades
func (r *Repository) GetOpenTrades(ctx context.Context, accountID string) ([]models.Trade, error) {
	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveDB("select", "trades")

	rows, err := r.db.Query(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE account_id = $1 AND status = $2
		ORDER BY entry_date DESC
	`, accountID, models.TradeStatusOpen)
	if err != nil {
		observability.GetMetrics().RecordDBError("select", "trades")
		return nil, fmt.Errorf("failed to query open trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetTrade returns a single trade by ID, or nil when not found
func (r *Repository) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	row := r.db.QueryRow(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id)

	t, err := scanTrade(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		observability.GetMetrics().RecordDBError("select", "trades")
		return nil, fmt.Errorf("failed to query trade: %w", err)
	}

	return t, nil
}

// CreateTrade persists a new trade record
func (r *Repository) CreateTrade(ctx context.Context, t *models.Trade) error {
	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveDB("insert", "trades")

	_, err := r.db.Exec(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, t.ID, t.AccountID, t.Symbol, t.Kind, t.Strike, t.EntryPrice, t.Quantity,
		t.EntryDate, t.Status, t.BrokerFee, t.StopLoss, t.TargetPrice, t.ExitPrice, t.ExitDate,
		t.CurrentPrice, t.PnL)
	if err != nil {
		observability.GetMetrics().RecordDBError("insert", "trades")
		return fmt.Errorf("failed to create trade: %w", err)
	}

	return nil
}

// UpdateValuation writes back a computed current price and P&L
func (r *Repository) UpdateValuation(ctx context.Context, id uuid.UUID, currentPrice, pnl decimal.Decimal) error {
	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveDB("update", "trades")

	_, err := r.db.Exec(ctx, `
		UPDATE trades SET current_price = $2, pnl = $3 WHERE id = $1
	`, id, currentPrice, pnl)
	if err != nil {
		observability.GetMetrics().RecordDBError("update", "trades")
		return fmt.Errorf("failed to update trade valuation: %w", err)
	}
	return nil
}

// CloseTrade records the exit terms and flips the trade to closed
func (r *Repository) CloseTrade(ctx context.Context, t *models.Trade) error {
	timer := observability.GetMetrics().NewTimer()
	defer timer.ObserveDB("update", "trades")

	_, err := r.db.Exec(ctx, `
		UPDATE trades SET status = $2, exit_price = $3, exit_date = $4 WHERE id = $1
	`, t.ID, t.Status, t.ExitPrice, t.ExitDate)
	if err != nil {
		observability.GetMetrics().RecordDBError("update", "trades")
		return fmt.Errorf("failed to close trade: %w", err)
	}
	return nil
}

func scanTrade(row pgx.Row) (*models.Trade, error) {
	var t models.Trade
	err := row.Scan(&t.ID, &t.AccountID, &t.Symbol, &t.Kind, &t.Strike, &t.EntryPrice, &t.Quantity,
		&t.EntryDate, &t.Status, &t.BrokerFee, &t.StopLoss, &t.TargetPrice, &t.ExitPrice, &t.ExitDate,
		&t.CurrentPrice, &t.PnL)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTrades(rows pgx.Rows) ([]models.Trade, error) {
	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *t)
	}
	return trades, rows.Err()
}
