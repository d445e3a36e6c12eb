package service

import (
	"testing"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		errs []domain.FieldError
		want []string
	}{
		{
			name: "required number",
			errs: []domain.FieldError{{Field: "number", Type: "undefined"}},
			want: []string{"<strong>Credit Card Number</strong> is a required field."},
		},
		{
			name: "invalid expiration",
			errs: []domain.FieldError{{Field: "expiration", Type: "invalid"}},
			want: []string{"Please enter a valid <strong>Credit Card Expiration</strong>."},
		},
		{
			name: "invalid cvc",
			errs: []domain.FieldError{{Field: "cvc", Type: "invalid"}},
			want: []string{"Please enter a valid <strong>Credit Card CVC</strong>."},
		},
		{
			name: "unknown field is skipped",
			errs: []domain.FieldError{
				{Field: "cardholder", Type: "undefined"},
				{Field: "number", Type: "invalid"},
			},
			want: []string{"Please enter a valid <strong>Credit Card Number</strong>."},
		},
		{
			name: "unknown type is skipped",
			errs: []domain.FieldError{{Field: "number", Type: "expired"}},
			want: []string{},
		},
		{
			name: "empty input",
			errs: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValidationErrors(tt.errs))
		})
	}
}

func TestRenderNotices(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", RenderNotices(nil))
	})

	t.Run("list markup", func(t *testing.T) {
		got := RenderNotices([]string{
			"<strong>Credit Card Number</strong> is a required field.",
			"Please enter a valid <strong>Credit Card CVC</strong>.",
		})
		assert.Equal(t,
			`<ul class="checkout-error">`+
				"<li><strong>Credit Card Number</strong> is a required field.</li>"+
				"<li>Please enter a valid <strong>Credit Card CVC</strong>.</li>"+
				"</ul>",
			got)
	})
}
