package dto

import (
	"starmobiles/internal/domain/entity"
)

// AdminStats is the back-office dashboard.
type AdminStats struct {
	TotalOrders       int64            `json:"total_orders"`
	PendingOrders     int64            `json:"pending_orders"`
	CompletedSales    int64            `json:"completed_sales"`
	AdvancesCollected int64            `json:"advances_collected"`
	BookingsByStatus  map[string]int64 `json:"bookings_by_status"`
	TotalProducts     int64            `json:"total_products"`
}

// FromAdminStats maps the dashboard figures.
func FromAdminStats(s *entity.AdminStats) *AdminStats {
	byStatus := make(map[string]int64, len(s.BookingsByStatus))
	for status, n := range s.BookingsByStatus {
		byStatus[string(status)] = n
	}

	return &AdminStats{
		TotalOrders:       s.TotalOrders,
		PendingOrders:     s.PendingOrders,
		CompletedSales:    s.CompletedSales,
		AdvancesCollected: s.AdvancesCollected,
		BookingsByStatus:  byStatus,
		TotalProducts:     s.TotalProducts,
	}
}
