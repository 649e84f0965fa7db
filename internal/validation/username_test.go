package validation

import "testing"

func TestIsReservedUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		reserved bool
	}{
		{name: "plain user", username: "leo", reserved: false},
		{name: "new", username: "new", reserved: true},
		{name: "follow uppercase", username: "Follow", reserved: true},
		{name: "group padded", username: " group ", reserved: true},
		{name: "about", username: "about", reserved: true},
		{name: "prefix only", username: "newton", reserved: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsReservedUsername(tc.username); got != tc.reserved {
				t.Fatalf("IsReservedUsername(%q) = %v, want %v", tc.username, got, tc.reserved)
			}
		})
	}
}

func TestIsValidUsername(t *testing.T) {
	t.Parallel()

	valid := []string{"leo", "leo.tolstoy", "a@b+c-d_e", "Лев"}
	for _, u := range valid {
		if !IsValidUsername(u) {
			t.Fatalf("expected %q to be valid", u)
		}
	}
	invalid := []string{"", "with space", "slash/name", "semi;colon"}
	for _, u := range invalid {
		if IsValidUsername(u) {
			t.Fatalf("expected %q to be invalid", u)
		}
	}
}
