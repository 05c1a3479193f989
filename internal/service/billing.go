package service

import (
	"math"
	"time"
)

// ComputeFee charges every started hour between check-in and check-out at
// hourlyRate, with a floor of minimumFee. A stay of zero or negative duration
// is billed as one hour.
func ComputeFee(checkIn, checkOut time.Time, hourlyRate, minimumFee float64) float64 {
	duration := checkOut.Sub(checkIn)
	hours := math.Ceil(duration.Hours())
	if hours < 1 {
		hours = 1
	}

	fee := hours * hourlyRate
	if fee < minimumFee {
		fee = minimumFee
	}
	return fee
}
