// internal/domain/holding.go
package domain

import "time"

// Holding is one cap-table entry: how many shares of a property a user owns.
// Rows with zero shares are deleted rather than kept, so Shares is always
// positive. The same rows queried by user form the user's portfolio.
// Invariant per property: available shares + sum of holdings = total shares.
type Holding struct {
	ID         int64     `db:"id" json:"id"`
	PropertyID int64     `db:"property_id" json:"propertyId"`
	UserID     int64     `db:"user_id" json:"userId"`
	Shares     int64     `db:"shares" json:"shares"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
