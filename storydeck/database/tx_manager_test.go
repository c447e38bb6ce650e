package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/storydeck/marketplace/internal/domain/marketplace"
	"github.com/storydeck/marketplace/storydeck/database/repositories"
)

func TestIsSerializationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "Nil", err: nil, want: false},
		{name: "Plain", err: errors.New("boom"), want: false},
		{name: "NoRows", err: sql.ErrNoRows, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSerializationFailure(tt.err); got != tt.want {
				t.Errorf("IsSerializationFailure() = %v, want %v", got, tt.want)
			}
		})
	}

	// pgdriver.Error has no exported constructor; the zero value carries no SQLSTATE.
	if IsSerializationFailure(fmt.Errorf("commit: %w", pgdriver.Error{})) {
		t.Error("IsSerializationFailure() = true for an error without SQLSTATE")
	}
}

func Test_translate(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{
			name:   "NotFound",
			err:    &repositories.NotFoundError{Entity: "listing", ID: "l1"},
			target: marketplace.ErrNotFound,
		},
		{
			name:   "Conflict",
			err:    &repositories.ConflictError{Entity: "listing", ID: "l1", Field: "status", Expected: "OPEN"},
			target: marketplace.ErrConflict,
		},
		{
			name: "WrappedNotFound",
			err: &repositories.RepositoryError{Operation: "get", Entity: "trade",
				Err: &repositories.NotFoundError{Entity: "trade", ID: "t1"}},
			target: marketplace.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.err); !errors.Is(got, tt.target) {
				t.Errorf("translate() = %v, want %v in chain", got, tt.target)
			}
		})
	}

	if translate(nil) != nil {
		t.Error("translate(nil) != nil")
	}
	plain := errors.New("connection reset")
	if got := translate(plain); got != plain {
		t.Errorf("translate() = %v, want the error unchanged", got)
	}
}
