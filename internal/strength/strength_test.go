package strength

import "testing"

func TestIsStrong(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"all classes present", "Abcdef1!", true},
		{"lowercase only", "abcdefgh", false},
		{"too short", "Ab1!", false},
		{"empty", "", false},
		{"no symbol", "Abcdefg1", false},
		{"underscore is not a symbol", "Abcdef1_", false},
		{"no digit", "Abcdefg!", false},
		{"no uppercase", "abcdef1!", false},
		{"no lowercase", "ABCDEF1!", false},
		{"space counts as symbol", "Abcdef1 ", true},
		{"long passphrase", "Correct-Horse-Battery-1", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsStrong(tc.password); got != tc.want {
				t.Fatalf("IsStrong(%q) = %v, want %v", tc.password, got, tc.want)
			}
		})
	}
}

func TestFlagWeak_DuplicatePasswords(t *testing.T) {
	in := []Credential{
		{Username: "a", Password: "Shared#Pass1"},
		{Username: "b", Password: "Shared#Pass1"},
		{Username: "c", Password: "Str0ng#Pass"},
	}

	out := FlagWeak(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out))
	}

	// First two share a password, so each is weak even though the password
	// itself passes the strength check.
	if !out[0].IsWeak || !out[1].IsWeak {
		t.Fatalf("expected duplicated passwords to be flagged: %+v", out)
	}
	if out[2].IsWeak {
		t.Fatalf("expected strong, unique credential to pass: %+v", out[2])
	}
}

func TestFlagWeak_DuplicateUsernames(t *testing.T) {
	out := FlagWeak([]Credential{
		{Username: "alice", Password: "First#Pass1"},
		{Username: "alice", Password: "Second#Pass2"},
		{Username: "bob", Password: "Third#Pass3"},
	})

	if !out[0].IsWeak || !out[1].IsWeak {
		t.Fatalf("expected duplicated usernames to be flagged: %+v", out)
	}
	if out[2].IsWeak {
		t.Fatalf("expected unique credential to pass: %+v", out[2])
	}
}

func TestFlagWeak_UsernameEqualsPassword(t *testing.T) {
	out := FlagWeak([]Credential{
		{Username: "Admin#Pass1", Password: "Admin#Pass1"},
	})
	if !out[0].IsWeak {
		t.Fatalf("expected username==password to be flagged")
	}
}

func TestFlagWeak_WeakByEvaluator(t *testing.T) {
	out := FlagWeak([]Credential{
		{Username: "a", Password: "short"},
		{Username: "b", Password: "Long#Enough1"},
	})
	if !out[0].IsWeak {
		t.Fatalf("expected evaluator-weak password to be flagged")
	}
	if out[1].IsWeak {
		t.Fatalf("expected strong credential to pass")
	}
}

func TestFlagWeak_StableOrderAndEmpty(t *testing.T) {
	if out := FlagWeak(nil); len(out) != 0 {
		t.Fatalf("expected empty output for empty input, got %v", out)
	}

	in := []Credential{
		{Username: "u1", Password: "p1"},
		{Username: "u2", Password: "p2"},
		{Username: "u3", Password: "p3"},
	}
	out := FlagWeak(in)
	for i := range in {
		if out[i].Username != in[i].Username {
			t.Fatalf("output order differs from input order at %d: %+v", i, out)
		}
	}
}
