package memorders

import "github.com/BearBump/ParcelAssist/internal/models"

// SampleOrders returns the three demo orders the assistant ships with.
// A fresh slice is returned on every call.
func SampleOrders() []models.Order {
	return []models.Order{
		{
			ID:       "AB-123456",
			Email:    "dora@gmail.com",
			Zip:      "94107",
			Status:   models.OrderStatusInTransit,
			Carrier:  "USPS",
			LastScan: "2025-09-06 14:15 PT - Arrived at San Francisco, CA facility",
			ETA:      "2025-09-10",
			Notes:    "Weather-related delay reported on 2025-09-05",
		},
		{
			ID:       "AB-654321",
			Email:    "dino@yahoo.com",
			Zip:      "93402",
			Status:   models.OrderStatusOutForDelivery,
			Carrier:  "UPS",
			LastScan: "2025-09-07 08:35 PT - Departed Sunnyvale, CA facility",
			ETA:      "2025-09-07",
		},
		{
			ID:       "AB-112233",
			Email:    "devin@gmail.com",
			Zip:      "94704",
			Status:   models.OrderStatusDelivered,
			Carrier:  "FedEx",
			LastScan: "2025-09-06 17:49 PT - Delivered, left at front door",
			ETA:      "2025-09-06",
			Notes:    "Photo confirmation available",
		},
	}
}
