package model

import "time"

// Rating bounds accepted for a review.
const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Review is a guest's rating of a property.
type Review struct {
	ID         int       `json:"id"`
	GuestID    int       `json:"guest_id"`
	PropertyID int       `json:"property_id"`
	Rating     float64   `json:"rating"`
	Comment    string    `json:"comment"`
	Date       time.Time `json:"date"`
}

func (r *Review) GetID() int   { return r.ID }
func (r *Review) SetID(id int) { r.ID = id }

// ValidRating reports whether rating lies within [MinRating, MaxRating].
func ValidRating(rating float64) bool {
	return rating >= MinRating && rating <= MaxRating
}
