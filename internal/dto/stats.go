package dto

type DailyStatsResponse struct {
	Date         string `json:"date"`
	TotalOrders  int    `json:"totalOrders"`
	PaidOrders   int    `json:"paidOrders"`
	TotalRevenue string `json:"totalRevenue"`
}
