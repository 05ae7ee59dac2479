package domain

import (
	"errors"
	"testing"
)

func TestValidateCUIT(t *testing.T) {
	tests := []struct {
		name    string
		cuit    string
		wantErr error
	}{
		{
			name: "valid with dashes",
			cuit: "20-11111111-2",
		},
		{
			name: "valid plain digits",
			cuit: "20111111112",
		},
		{
			name: "valid remainder eleven maps to zero",
			// payload 2712345678: weighted sum 176, 176 mod 11 = 0
			cuit: "27-12345678-0",
		},
		{
			name: "valid remainder ten maps to nine",
			// payload 2000000001: weighted sum 12, 12 mod 11 = 1
			cuit: "20-00000001-9",
		},
		{
			name: "valid typical check digit",
			cuit: "23-33333333-3",
		},
		{
			name: "non-digit separators are stripped",
			cuit: "20.11111111.2",
		},
		{
			name:    "wrong check digit",
			cuit:    "20-11111111-9",
			wantErr: ErrCUITCheckDigit,
		},
		{
			name:    "legacy seed fixture fails checksum",
			cuit:    "27-12345678-5",
			wantErr: ErrCUITCheckDigit,
		},
		{
			name:    "too short",
			cuit:    "20-111111-2",
			wantErr: ErrCUITLength,
		},
		{
			name:    "too long",
			cuit:    "20-11111111-22",
			wantErr: ErrCUITLength,
		},
		{
			name:    "empty",
			cuit:    "",
			wantErr: ErrCUITLength,
		},
		{
			name:    "letters only",
			cuit:    "abcdefghijk",
			wantErr: ErrCUITLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCUIT(tt.cuit)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCUIT(%q) = %v, want %v", tt.cuit, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeCUIT(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"20-11111111-2", "20111111112"},
		{"20111111112", "20111111112"},
		{" 20 11111111 2 ", "20111111112"},
		{"abc", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeCUIT(tt.in); got != tt.want {
			t.Errorf("NormalizeCUIT(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
