package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
)

func TestErrorCode_Predicates(t *testing.T) {
	tests := []struct {
		code         model.ErrorCode
		retryable    bool
		loginMessage bool
	}{
		{model.CodeAccessTokenExpired, true, true},
		{model.CodeTokenWindowExpired, true, true},
		{model.CodeTokenWindowExpired2, true, true},
		{model.CodeRefreshTokenMissing, false, true},
		{model.CodeRefreshTokenRevoked, false, true},
		{model.CodeUnauthorized, false, false},
		{model.CodeInvalidPassword, false, true},
		{"Z99999", false, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.retryable, tt.code.IsRetryableAuth())
			assert.Equal(t, tt.loginMessage, tt.code.CarriesLoginMessage())
		})
	}
}
