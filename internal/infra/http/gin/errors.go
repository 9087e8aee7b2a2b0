package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"tripquote/internal/app/handlers/quotes"
	"tripquote/internal/app/handlers/rates"
	domainagent "tripquote/internal/domain/agent"
	domaincatalog "tripquote/internal/domain/catalog"
	domainpricing "tripquote/internal/domain/pricing"
	domainquote "tripquote/internal/domain/quote"
	domainrange "tripquote/internal/domain/shared/daterange"
	"tripquote/internal/infra/storage/s3"
)

// respondError maps domain errors onto HTTP statuses. Anything unmapped is
// treated as an internal failure so repository errors never leak details.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domaincatalog.ErrItemNotFound),
		errors.Is(err, domaincatalog.ErrPackageNotFound),
		errors.Is(err, domaincatalog.ErrRateNotFound),
		errors.Is(err, domainagent.ErrAgentNotFound),
		errors.Is(err, domainquote.ErrQuoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domaincatalog.ErrRateOverlap),
		errors.Is(err, domainquote.ErrInvalidState),
		errors.Is(err, domainquote.ErrNotDraft),
		errors.Is(err, domainquote.ErrNotExpired),
		errors.Is(err, domainquote.ErrEditAfterClient):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, domaincatalog.ErrInvalidWindow),
		errors.Is(err, domaincatalog.ErrInvalidKind),
		errors.Is(err, domainpricing.ErrInvalidPax),
		errors.Is(err, domainpricing.ErrInvalidNights),
		errors.Is(err, domainpricing.ErrInvalidMarkup),
		errors.Is(err, domainpricing.ErrNegativeValue),
		errors.Is(err, domainpricing.ErrNoItems),
		errors.Is(err, domainquote.ErrClientRequired),
		errors.Is(err, domainquote.ErrAgentRequired),
		errors.Is(err, domainquote.ErrItemsRequired),
		errors.Is(err, quotes.ErrUnknownAction),
		errors.Is(err, rates.ErrTargetRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, s3.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
