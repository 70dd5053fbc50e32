package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/newsclient/internal/client/client"
	"github.com/dmitrijs2005/newsclient/internal/client/identity"
	"github.com/dmitrijs2005/newsclient/internal/client/session"
	"github.com/dmitrijs2005/newsclient/internal/common"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{invalid("Name is required"), "Name is required"},
		{fmt.Errorf("wrapped: %w", ErrLoginRequired), "Please login to comment"},
		{session.ErrNotLoggedIn, "Please login first"},
		{fmt.Errorf("%w: role enduser", session.ErrForbidden), "You do not have permission to do that"},
		{&client.APIError{Status: http.StatusBadRequest, Description: "Bad slug"}, "Bad slug"},
		{&client.APIError{Status: http.StatusBadGateway}, common.GenericErrorMessage},
		{&client.APIError{Status: http.StatusForbidden}, "You do not have permission to do that"},
		{client.ErrUnavailable, common.GenericErrorMessage},
		{identity.ErrUnknownPayload, common.GenericErrorMessage},
		{errors.New("boom"), common.GenericErrorMessage},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Message(tt.err), fmt.Sprint(tt.err))
	}
}

func TestValidationErrorMatchesSentinel(t *testing.T) {
	assert.ErrorIs(t, invalid("x"), ErrValidation)
}
