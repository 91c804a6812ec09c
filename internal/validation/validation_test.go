package validation

import "testing"

func TestIsBlank(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"a", false},
		{"  a  ", false},
	}

	for _, tt := range tests {
		if got := IsBlank(tt.in); got != tt.want {
			t.Fatalf("IsBlank(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0912345678", true},
		{"+84912345678", true},
		{"091 234 5678", true},
		{"091-234-5678", true},
		{"12345", false},
		{"", false},
		{"phone", false},
		{"0912345678901234", false},
		{"09123x5678", false},
	}

	for _, tt := range tests {
		if got := IsValidPhone(tt.in); got != tt.want {
			t.Fatalf("IsValidPhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"user.name@example.com", true},
		{"@example.com", false},
		{"user@", false},
		{"user", false},
		{"user@nodot", false},
		{"user name@example.com", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.in); got != tt.want {
			t.Fatalf("IsValidEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
