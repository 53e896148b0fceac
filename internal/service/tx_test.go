package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTransientTxError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"check violation", &pgconn.PgError{Code: "23514"}, false},
		{"wrapped lock timeout", fmt.Errorf("append: %w", &pgconn.PgError{Code: "55P03"}), true},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transientTxError(tt.err); got != tt.want {
				t.Errorf("transientTxError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("23505 not recognized")
	}
	if !isUniqueViolation(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})) {
		t.Error("wrapped 23505 not recognized")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "55P03"}) {
		t.Error("lock timeout misread as unique violation")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Error("plain error misread as unique violation")
	}
}
