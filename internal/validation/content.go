package validation

import (
	"fmt"
	"strings"

	"github.com/LaurentJouron/LITReview/internal/models"
)

// ValidateTicketFields checks the statically-typed field constraints for a
// ticket. Title is required; both fields are length-bounded. Violations are
// returned as ValidationError so handlers map them to 400.
func ValidateTicketFields(title, description string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("title is required")
	}
	if len(title) > models.TicketTitleMaxLen {
		return models.NewValidationError(
			fmt.Sprintf("title too long (max %d characters)", models.TicketTitleMaxLen))
	}
	if len(description) > models.TicketDescriptionMaxLen {
		return models.NewValidationError(
			fmt.Sprintf("description too long (max %d characters)", models.TicketDescriptionMaxLen))
	}
	return nil
}

// ValidateReviewFields checks the statically-typed field constraints for a
// review. Headline is required, rating must sit in [0,5]. Violations are
// returned as ValidationError so handlers map them to 400.
func ValidateReviewFields(headline, body string, rating int) error {
	if strings.TrimSpace(headline) == "" {
		return models.NewValidationError("headline is required")
	}
	if len(headline) > models.ReviewHeadlineMaxLen {
		return models.NewValidationError(
			fmt.Sprintf("headline too long (max %d characters)", models.ReviewHeadlineMaxLen))
	}
	if len(body) > models.ReviewBodyMaxLen {
		return models.NewValidationError(
			fmt.Sprintf("body too long (max %d characters)", models.ReviewBodyMaxLen))
	}
	if rating < models.ReviewRatingMin || rating > models.ReviewRatingMax {
		return models.NewValidationError(
			fmt.Sprintf("rating must be between %d and %d", models.ReviewRatingMin, models.ReviewRatingMax))
	}
	return nil
}
