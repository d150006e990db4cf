package store

import "database/sql"

// DashboardStats summarises one user's activity for the dashboard page.
type DashboardStats struct {
	CartLines   int
	TotalOrders int
	TotalSpent  float64
}

func (s *Store) GetDashboardStats(userID int) (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := s.DB.QueryRow("SELECT COUNT(*) FROM cart WHERE user_id = ?", userID).Scan(&stats.CartLines)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRow("SELECT COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders WHERE user_id = ?", userID).Scan(&stats.TotalOrders, &stats.TotalSpent)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return stats, nil
}
