package repository

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixed decimal places for persisted numerics. All conversions between
// float64 and the stored Decimal128 go through this file.
const (
	ratingPlaces     = 1
	popularityPlaces = 3
	scorePlaces      = 4
)

func encodeRating(v float64) primitive.Decimal128     { return encodeDecimal(v, ratingPlaces) }
func encodePopularity(v float64) primitive.Decimal128 { return encodeDecimal(v, popularityPlaces) }
func encodeScore(v float64) primitive.Decimal128      { return encodeDecimal(v, scorePlaces) }

func encodeDecimal(v float64, places int) primitive.Decimal128 {
	d, err := primitive.ParseDecimal128(strconv.FormatFloat(v, 'f', places, 64))
	if err != nil {
		// NaN/Inf never reach the store.
		return primitive.NewDecimal128(0, 0)
	}
	return d
}

func decodeDecimal(d primitive.Decimal128) float64 {
	f, err := strconv.ParseFloat(d.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// roundTrip returns v as it reads back after storage at the given precision.
func roundTrip(v float64, places int) float64 {
	return decodeDecimal(encodeDecimal(v, places))
}
