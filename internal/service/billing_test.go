package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeFee(t *testing.T) {
	checkIn := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("whole hours", func(t *testing.T) {
		fee := ComputeFee(checkIn, checkIn.Add(3*time.Hour), 2.5, 0)
		assert.Equal(t, 7.5, fee)
	})

	t.Run("started hour is billed in full", func(t *testing.T) {
		fee := ComputeFee(checkIn, checkIn.Add(2*time.Hour+5*time.Minute), 2.5, 0)
		assert.Equal(t, 7.5, fee)
	})

	t.Run("minimum one hour", func(t *testing.T) {
		fee := ComputeFee(checkIn, checkIn.Add(10*time.Minute), 4.0, 0)
		assert.Equal(t, 4.0, fee)
	})

	t.Run("zero duration still bills one hour", func(t *testing.T) {
		fee := ComputeFee(checkIn, checkIn, 2.5, 0)
		assert.Equal(t, 2.5, fee)
	})

	t.Run("minimum fee floor", func(t *testing.T) {
		fee := ComputeFee(checkIn, checkIn.Add(30*time.Minute), 1.5, 5.0)
		assert.Equal(t, 5.0, fee)
	})
}
