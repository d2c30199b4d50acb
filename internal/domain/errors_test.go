package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestInsufficientStockErrorIs(t *testing.T) {
	err := &InsufficientStockError{ProductID: 5, ProductName: "Цемент М500", Available: 2, Requested: 7}

	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatal("expected errors.Is match on ErrInsufficientStock")
	}

	wrapped := fmt.Errorf("create order: %w", err)
	if !errors.Is(wrapped, ErrInsufficientStock) {
		t.Fatal("expected wrapped error to match ErrInsufficientStock")
	}

	var stockErr *InsufficientStockError
	if !errors.As(wrapped, &stockErr) {
		t.Fatal("expected errors.As to recover InsufficientStockError")
	}
	if stockErr.ProductName != "Цемент М500" {
		t.Fatalf("unexpected product name: %q", stockErr.ProductName)
	}
	if !strings.Contains(err.Error(), "Цемент М500") {
		t.Fatalf("error message must name the product: %q", err.Error())
	}
}

func TestErrorKindHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		fn   func(error) bool
		want bool
	}{
		{name: "product not found", err: ErrProductNotFound, fn: IsNotFound, want: true},
		{name: "wrapped order not found", err: fmt.Errorf("get: %w", ErrOrderNotFound), fn: IsNotFound, want: true},
		{name: "conflict is not not-found", err: ErrArticleTaken, fn: IsNotFound, want: false},
		{name: "article conflict", err: ErrArticleTaken, fn: IsConflict, want: true},
		{name: "client referenced", err: ErrClientReferenced, fn: IsConflict, want: true},
		{name: "invalid status validation", err: ErrInvalidStatus, fn: IsValidation, want: true},
		{name: "qty validation", err: ErrItemQtyInvalid, fn: IsValidation, want: true},
		{name: "nil error", err: nil, fn: IsNotFound, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.err); got != tc.want {
				t.Fatalf("kind check = %v, want %v", got, tc.want)
			}
		})
	}
}
