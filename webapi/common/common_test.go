package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/raffleworks/raffleworks/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound, fiber.StatusNotFound},
		{domain.ErrConflict, fiber.StatusConflict},
		{domain.ErrAlreadyReviewed, fiber.StatusConflict},
		{domain.ErrMissingReason, fiber.StatusBadRequest},
		{domain.ErrInvalidMethodKind, fiber.StatusBadRequest},
		{domain.ErrCapExceeded, fiber.StatusUnprocessableEntity},
		{domain.ErrRaffleClosed, fiber.StatusUnprocessableEntity},
		{domain.ErrIssuanceFailed, fiber.StatusUnprocessableEntity},
		{domain.ErrNotCompleted, fiber.StatusUnprocessableEntity},
		{domain.ErrTransientGateway, fiber.StatusBadGateway},
		{domain.ErrTerminalGateway, fiber.StatusBadGateway},
		{domain.ErrFinalizationFailed, fiber.StatusBadGateway},
		{domain.ErrUnauthorized, fiber.StatusForbidden},
		{errors.New("anything else"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorToStatusCode(tt.err))
		})
	}
}

func TestErrorToStatusCode_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: cap reached for raffle", domain.ErrIssuanceFailed)
	assert.Equal(t, fiber.StatusUnprocessableEntity, ErrorToStatusCode(wrapped))

	doubly := fmt.Errorf("approve: %w", fmt.Errorf("%w: row moved", domain.ErrConflict))
	assert.Equal(t, fiber.StatusConflict, ErrorToStatusCode(doubly))
}
