package handlers

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestErrMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.New("account not found"), "Account not found"},
		{errors.New("éxito parcial"), "Éxito parcial"},
		{errors.New("ünïcode"), "Ünïcode"},
		{errors.New(""), "something went wrong"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errMessage(tt.err))
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusConflict, statusFor(models.ErrActionInFlight))
	assert.Equal(t, fiber.StatusPreconditionRequired, statusFor(models.ErrConfirmationRequired))
	assert.Equal(t, fiber.StatusNotFound, statusFor(models.ErrAccountNotFound))
}
