package service

import (
	"context"
	"sort"

	"github.com/iliyamo/rental-booking/internal/model"
)

// AddReview records guest's rating of property, dated now.
func (s *Service) AddReview(ctx context.Context, guest model.Guest, property model.Property, rating float64, comment string) (model.Review, error) {
	const op = "add review"
	if !model.ValidRating(rating) {
		return model.Review{}, newError(op, ErrInvalid, nil)
	}
	r := model.Review{
		GuestID:    guest.ID,
		PropertyID: property.ID,
		Rating:     rating,
		Comment:    comment,
		Date:       s.stamp(),
	}
	if err := s.stores.Reviews.Create(ctx, &r); err != nil {
		return model.Review{}, storageError(op, err)
	}
	return r, nil
}

// GetReviewsForProperty lists the reviews of propertyID.  Without
// sortByRating they come in storage order; otherwise they are stably
// sorted by rating, ascending or descending.
func (s *Service) GetReviewsForProperty(ctx context.Context, propertyID int, sortByRating, descending bool) ([]model.Review, error) {
	reviews, err := filter(ctx, s.stores.Reviews, "get reviews for property", func(r model.Review) bool {
		return r.PropertyID == propertyID
	})
	if err != nil || !sortByRating {
		return reviews, err
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		if descending {
			return reviews[i].Rating > reviews[j].Rating
		}
		return reviews[i].Rating < reviews[j].Rating
	})
	return reviews, nil
}

// PropertyRating pairs a property with its average review rating.
type PropertyRating struct {
	Property model.Property `json:"property"`
	Average  float64        `json:"average_rating"`
	Reviews  int            `json:"reviews"`
}

// GetPropertiesByTotalReviews ranks every property by average rating,
// highest first.  Unreviewed properties average 0.0 and come after every
// reviewed one; ties keep storage order.
func (s *Service) GetPropertiesByTotalReviews(ctx context.Context) ([]PropertyRating, error) {
	const op = "get properties by total reviews"
	props, err := s.GetAllProperties(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.stores.Reviews.GetAll(ctx)
	if err != nil {
		return nil, storageError(op, err)
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range reviews {
		sums[r.PropertyID] += r.Rating
		counts[r.PropertyID]++
	}

	out := make([]PropertyRating, 0, len(props))
	for _, p := range props {
		pr := PropertyRating{Property: p, Reviews: counts[p.ID]}
		if pr.Reviews > 0 {
			pr.Average = sums[p.ID] / float64(pr.Reviews)
		}
		out = append(out, pr)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Average != b.Average {
			return a.Average > b.Average
		}
		return a.Reviews > 0 && b.Reviews == 0
	})
	return out, nil
}
