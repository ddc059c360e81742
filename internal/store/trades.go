package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/survivors/internal/model"
)

// RecordTrade stores a settled trade and its offered lines.
func RecordTrade(ctx context.Context, q Querier, t *model.Trade) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO trades (id, survivor_a, survivor_b, worth, settled_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.A.SurvivorID, t.B.SurvivorID, t.Worth, t.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("recording trade: %w", err)
	}

	for _, offer := range []model.TradeOffer{t.A, t.B} {
		items := offer.Items.Positive()
		for _, itemID := range items.ItemIDs() {
			_, err := q.ExecContext(ctx,
				`INSERT INTO trade_lines (trade_id, giver_id, item_id, quantity) VALUES (?, ?, ?, ?)`,
				t.ID, offer.SurvivorID, itemID, items[itemID],
			)
			if err != nil {
				return fmt.Errorf("recording trade line: %w", err)
			}
		}
	}
	return nil
}

// ListTrades returns settled trades, newest first, optionally filtered to
// those a survivor took part in.
func ListTrades(ctx context.Context, q Querier, survivorID string) ([]model.Trade, error) {
	tradeQuery := `SELECT id, survivor_a, survivor_b, worth, settled_at FROM trades`
	lineQuery := `SELECT trade_id, giver_id, item_id, quantity FROM trade_lines`
	var args []any

	if survivorID != "" {
		tradeQuery += ` WHERE survivor_a = ? OR survivor_b = ?`
		lineQuery += ` WHERE trade_id IN (SELECT id FROM trades WHERE survivor_a = ? OR survivor_b = ?)`
		args = append(args, survivorID, survivorID)
	}
	tradeQuery += ` ORDER BY settled_at DESC, id`

	rows, err := q.QueryContext(ctx, tradeQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing trades: %w", err)
	}
	trades, err := scanTrades(rows)
	if err != nil {
		return nil, err
	}

	index := make(map[string]*model.Trade, len(trades))
	for i := range trades {
		index[trades[i].ID] = &trades[i]
	}

	lines, err := q.QueryContext(ctx, lineQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing trade lines: %w", err)
	}
	defer lines.Close()

	for lines.Next() {
		var tradeID, giverID, itemID string
		var qty int
		if err := lines.Scan(&tradeID, &giverID, &itemID, &qty); err != nil {
			return nil, fmt.Errorf("scanning trade line: %w", err)
		}
		t, ok := index[tradeID]
		if !ok {
			continue
		}
		if giverID == t.A.SurvivorID {
			t.A.Items[itemID] = qty
		} else {
			t.B.Items[itemID] = qty
		}
	}
	return trades, lines.Err()
}

func scanTrades(rows *sql.Rows) ([]model.Trade, error) {
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		var t model.Trade
		if err := rows.Scan(&t.ID, &t.A.SurvivorID, &t.B.SurvivorID, &t.Worth, &t.SettledAt); err != nil {
			return nil, fmt.Errorf("scanning trade: %w", err)
		}
		t.A.Items = model.Inventory{}
		t.B.Items = model.Inventory{}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}
