package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "pq message", err: &pq.Error{Message: "duplicate key value", Detail: "Key (id) exists", Hint: "h"}, want: "duplicate key value"},
		{name: "pq detail", err: &pq.Error{Detail: "Key (id) exists", Hint: "h"}, want: "Key (id) exists"},
		{name: "pq hint", err: &pq.Error{Hint: "check the column type"}, want: "check the column type"},
		{name: "pq empty", err: &pq.Error{}, want: fallbackMessage},
		{name: "wrapped pq", err: fmt.Errorf("insert: %w", &pq.Error{Message: "bad input"}), want: "bad input"},
		{name: "minio", err: fmt.Errorf("failed to upload image: %w", minio.ErrorResponse{Code: "AccessDenied", Message: "Access Denied."}), want: "Access Denied."},
		{name: "minio code only", err: minio.ErrorResponse{Code: "NoSuchBucket"}, want: "NoSuchBucket"},
		{name: "plain", err: errors.New("dial tcp: connection refused"), want: "dial tcp: connection refused"},
		{name: "blank", err: errors.New("  "), want: fallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err))
		})
	}
}

func TestBackendErrorUnwraps(t *testing.T) {
	err := &BackendError{Op: "update", Message: "record not found", Err: ErrNotFound}
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "record not found", err.Error())
}
