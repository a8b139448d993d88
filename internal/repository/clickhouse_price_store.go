package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vishal13230/BellCurve-Securities/internal/domain/models"
	"github.com/vishal13230/BellCurve-Securities/internal/domain/repository"
)

// ClickHousePriceStore reads adjusted daily closes from a ClickHouse table
// with columns (day Date, symbol String, adj_close Float64) and pivots them
// into an aligned price table.
type ClickHousePriceStore struct {
	db    *sql.DB
	table string
}

// NewClickHousePriceStore creates a ClickHouse-backed price store.
func NewClickHousePriceStore(db *sql.DB, table string) repository.PriceStore {
	return &ClickHousePriceStore{db: db, table: table}
}

func (s *ClickHousePriceStore) PriceTable(ctx context.Context, symbols []string, from, to time.Time) (*models.PriceTable, error) {
	if len(symbols) == 0 {
		return &models.PriceTable{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(symbols)), ",")
	q := fmt.Sprintf(
		"SELECT day, symbol, adj_close FROM %s WHERE symbol IN (%s) AND day >= ? AND day <= ? ORDER BY day",
		s.table, placeholders)

	args := make([]interface{}, 0, len(symbols)+2)
	for _, sym := range symbols {
		args = append(args, sym)
	}
	args = append(args, from, to)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("price query: %w", err)
	}
	defer rows.Close()

	col := make(map[string]int, len(symbols))
	for i, sym := range symbols {
		col[sym] = i
	}

	// Collect per-day partial rows, then keep only days where every
	// requested symbol traded.
	type dayRow struct {
		prices []float64
		filled int
	}
	byDay := make(map[time.Time]*dayRow)
	var days []time.Time

	for rows.Next() {
		var (
			day    time.Time
			symbol string
			price  float64
		)
		if err := rows.Scan(&day, &symbol, &price); err != nil {
			return nil, fmt.Errorf("price scan: %w", err)
		}
		i, ok := col[symbol]
		if !ok {
			continue
		}
		r := byDay[day]
		if r == nil {
			r = &dayRow{prices: make([]float64, len(symbols))}
			byDay[day] = r
			days = append(days, day)
		}
		r.prices[i] = price
		r.filled++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("price rows: %w", err)
	}

	table := &models.PriceTable{Assets: append([]string(nil), symbols...)}
	for _, day := range days {
		r := byDay[day]
		if r.filled != len(symbols) {
			continue
		}
		table.Timestamps = append(table.Timestamps, day)
		table.Rows = append(table.Rows, r.prices)
	}
	return table, nil
}

func (s *ClickHousePriceStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHousePriceStore) Close() error {
	return nil // pool owned by pkg/clickhouse
}
