package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestPetName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{
			name:  "simple name",
			input: "Mochi",
			want:  "Mochi",
		},
		{
			name:  "trims spaces",
			input: "  Sir Fluff-a-lot ",
			want:  "Sir Fluff-a-lot",
		},
		{
			name:  "unicode letters",
			input: "Пушок",
			want:  "Пушок",
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: ErrEmptyName,
		},
		{
			name:    "too long",
			input:   strings.Repeat("a", MaxNameLength+1),
			wantErr: ErrNameTooLong,
		},
		{
			name:    "markup",
			input:   "<b>cat</b>",
			wantErr: ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PetName(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PetName(%q) err = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("PetName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPetSpecies(t *testing.T) {
	if got, err := PetSpecies(""); err != nil || got != "cat" {
		t.Fatalf("PetSpecies(\"\") = %q, %v; want cat", got, err)
	}
	if got, err := PetSpecies(" Dragon "); err != nil || got != "dragon" {
		t.Fatalf("PetSpecies(Dragon) = %q, %v; want dragon", got, err)
	}
	if _, err := PetSpecies("unicorn"); !errors.Is(err, ErrUnknownSpecies) {
		t.Fatalf("PetSpecies(unicorn) err = %v, want ErrUnknownSpecies", err)
	}
}
