// internal/domain/property.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Property is a tokenized asset split into a fixed number of shares.
// AvailableShares is the unsold pool; the rest is tracked per holder in
// Holding rows. Balance is the rent pool held before distribution.
type Property struct {
	ID              int64           `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	Location        string          `db:"location" json:"location"`
	Area            int64           `db:"area" json:"area"`
	Floors          int64           `db:"floors" json:"floors"`
	Rooms           int64           `db:"rooms" json:"rooms"`
	ShareID         string          `db:"share_id" json:"shareId"`
	CurrentPrice    decimal.Decimal `db:"current_price" json:"currentPrice"`
	SharePrice      decimal.Decimal `db:"share_price" json:"sharePrice"`
	NumberOfShares  int64           `db:"number_of_shares" json:"numberOfShares"`
	AvailableShares int64           `db:"available_shares" json:"availableShares"`
	Balance         decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// PricePoint is one entry in a property's price history.
type PricePoint struct {
	ID         int64           `db:"id" json:"id"`
	PropertyID int64           `db:"property_id" json:"propertyId"`
	Price      decimal.Decimal `db:"price" json:"price"`
	RecordedAt time.Time       `db:"recorded_at" json:"recordedAt"`
}

// NewProperty creates an unsold property; all shares start in the available pool.
func NewProperty(name, location string, area, floors, rooms int64, currentPrice decimal.Decimal, numberOfShares int64) *Property {
	now := time.Now().UTC()
	return &Property{
		Name:            name,
		Location:        location,
		Area:            area,
		Floors:          floors,
		Rooms:           rooms,
		ShareID:         uuid.NewString(),
		CurrentPrice:    currentPrice,
		SharePrice:      PerSharePrice(currentPrice, numberOfShares),
		NumberOfShares:  numberOfShares,
		AvailableShares: numberOfShares,
		Balance:         decimal.Zero,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// PerSharePrice computes the price of a single share.
func PerSharePrice(currentPrice decimal.Decimal, numberOfShares int64) decimal.Decimal {
	if numberOfShares <= 0 {
		return decimal.Zero
	}
	return currentPrice.Div(decimal.NewFromInt(numberOfShares))
}
