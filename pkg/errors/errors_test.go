package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestFromStore(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"not found", status.Error(codes.NotFound, "missing"), CodeNotFound, http.StatusNotFound},
		{"already exists", status.Error(codes.AlreadyExists, "dup"), CodeConflict, http.StatusConflict},
		{"precondition", status.Error(codes.FailedPrecondition, "stale"), CodeConflict, http.StatusConflict},
		{"aborted", status.Error(codes.Aborted, "contention"), CodeConflict, http.StatusConflict},
		{"unavailable", status.Error(codes.Unavailable, "down"), CodeUnavailable, http.StatusServiceUnavailable},
		{"grpc deadline", status.Error(codes.DeadlineExceeded, "slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"ctx deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), CodeTimeout, http.StatusGatewayTimeout},
		{"other", stderrors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStore("Failed to load request", tt.err)

			var appErr *AppError
			if assert.ErrorAs(t, err, &appErr) {
				assert.Equal(t, tt.wantCode, appErr.Code)
				assert.Equal(t, tt.wantStatus, appErr.Status)
			}
		})
	}
}

func TestFromStorePassesAppErrorsThrough(t *testing.T) {
	orig := InvalidTransition("accepted", "reject")
	assert.Same(t, orig, FromStore("ignored", fmt.Errorf("tx: %w", orig)))
	assert.Nil(t, FromStore("ignored", nil))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(Unavailable("down", nil)))
	assert.True(t, IsTransient(Timeout("slow", nil)))
	assert.False(t, IsTransient(Forbidden("nope", nil)))
	assert.False(t, IsTransient(stderrors.New("plain")))
}
