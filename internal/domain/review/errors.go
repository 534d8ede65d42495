package review

import "errors"

var (
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview is returned by Create when the user has already
	// reviewed the product; the unique key catches the race.
	ErrDuplicateReview = errors.New("product already reviewed by this user")
)
