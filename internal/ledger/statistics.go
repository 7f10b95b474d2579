package ledger

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// MonthlyStat aggregates orders for one calendar month
type MonthlyStat struct {
	Orders int `json:"orders"`
	Items  int `json:"items"`
}

// Statistics summarizes the ledger for the stats command and admin API
type Statistics struct {
	TotalOrders int                    `json:"total_orders"`
	LastOrder   string                 `json:"last_order,omitempty"`
	Monthly     map[string]MonthlyStat `json:"monthly_stats"`
}

// Statistics reads the ledger and aggregates order counts per month. An
// absent ledger yields empty statistics, not an error.
func (w *Writer) Statistics() (*Statistics, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	stats := &Statistics{Monthly: map[string]MonthlyStat{}}

	if _, err := os.Stat(w.path); err != nil {
		return stats, nil
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read ledger sheet: %w", err)
	}
	if len(rows) <= 1 {
		return stats, nil
	}

	stats.TotalOrders = len(rows) - 1
	last := rows[len(rows)-1]
	if len(last) > 0 {
		stats.LastOrder = last[0]
	}

	sumIdx := -1
	for i, h := range rows[0] {
		if h == sumHeader {
			sumIdx = i
		}
	}

	for _, row := range rows[1:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		ts, err := time.Parse(timestampLayout, row[0])
		if err != nil {
			continue
		}
		month := ts.Format("2006-01")
		m := stats.Monthly[month]
		m.Orders++
		if sumIdx >= 0 && sumIdx < len(row) {
			if items, err := strconv.Atoi(row[sumIdx]); err == nil {
				m.Items += items
			}
		}
		stats.Monthly[month] = m
	}
	return stats, nil
}

// MonthKeys returns the months present in the statistics in ascending order
func (s *Statistics) MonthKeys() []string {
	keys := make([]string, 0, len(s.Monthly))
	for k := range s.Monthly {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
