package history

import (
	"fmt"
)

// TrendPoint aggregates one day of gate runs for a repo.
type TrendPoint struct {
	Day           string  `json:"day"`
	Runs          int     `json:"runs"`
	Blocked       int     `json:"blocked"`
	PassRate      float64 `json:"pass_rate"`
	AvgViolations float64 `json:"avg_violations"`
}

// Trends returns per-day aggregates over the last `days` days, oldest first.
// PassRate counts PASS and WARN as passing since neither blocks the caller.
func (s *Store) Trends(repo string, days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	rows, err := s.conn.Query(
		`SELECT date(timestamp) AS day,
		        COUNT(*) AS runs,
		        SUM(CASE WHEN outcome = 'BLOCK' THEN 1 ELSE 0 END) AS blocked,
		        AVG(violations) AS avg_violations
		 FROM gate_runs
		 WHERE repo = ? AND timestamp >= datetime('now', ?)
		 GROUP BY day
		 ORDER BY day ASC`,
		repo, fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return nil, fmt.Errorf("query trends: %w", err)
	}
	defer rows.Close()

	var points []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Day, &p.Runs, &p.Blocked, &p.AvgViolations); err != nil {
			return nil, fmt.Errorf("scan trend point: %w", err)
		}
		if p.Runs > 0 {
			p.PassRate = float64(p.Runs-p.Blocked) / float64(p.Runs) * 100
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
