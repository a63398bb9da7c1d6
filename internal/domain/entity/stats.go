package entity

// AdminStats is the back-office dashboard summary.
type AdminStats struct {
	TotalOrders       int64
	PendingOrders     int64 // orders awaiting verification
	CompletedSales    int64 // sum of total_amount over completed orders
	AdvancesCollected int64 // sum of advance_amount where the advance was received
	BookingsByStatus  map[BookingStatus]int64
	TotalProducts     int64
}
