package httpapi

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/bharti-kisan/agriguide/internal/assistant"
	"github.com/bharti-kisan/agriguide/internal/common"
	"github.com/bharti-kisan/agriguide/internal/market"
	"github.com/bharti-kisan/agriguide/internal/store"
	"github.com/bharti-kisan/agriguide/internal/weather"
)

// upstreamError maps failures of outbound calls to HTTP errors. Non-2xx
// upstream answers keep their status and body.
func upstreamError(c *fiber.Ctx, err error, msg string) error {
	var (
		se   *common.StatusError
		dse  *weather.DataShapeError
		verr validator.ValidationErrors
	)

	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &se):
		log.Printf("upstream error (%s): %v", msg, err)
		return c.Status(se.Code).JSON(fiber.Map{
			"error":   true,
			"message": msg,
			"details": se.Body,
		})
	case errors.As(err, &dse):
		log.Printf("ERROR: %s: %v", msg, err)
		return fiber.NewError(fiber.StatusBadGateway, msg)
	case errors.Is(err, market.ErrMissingAPIKey):
		return fiber.NewError(fiber.StatusBadRequest, "missing_api_key")
	case errors.Is(err, assistant.ErrNotConfigured),
		errors.Is(err, weather.ErrNoProvider),
		errors.Is(err, weather.ErrNoGeocoder),
		errors.Is(err, common.ErrCircuitOpen):
		return fiber.NewError(fiber.StatusServiceUnavailable, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, msg)
	default:
		log.Printf("ERROR: %s: %v", msg, err)
		return fiber.NewError(fiber.StatusBadGateway, msg)
	}
}

func storeError(err error, notFound, failed string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, notFound)
	}
	return fiber.NewError(fiber.StatusInternalServerError, failed)
}

func reminderError(err error) error {
	var verr validator.ValidationErrors
	switch {
	case errors.Is(err, store.ErrReminderNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: reminder update failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save reminder")
	}
}
