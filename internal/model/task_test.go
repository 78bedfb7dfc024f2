package model

import "testing"

func TestPriorityIsValid(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		want     bool
	}{
		{"low", PriorityLow, true},
		{"medium", PriorityMedium, true},
		{"high", PriorityHigh, true},
		{"empty", Priority(""), false},
		{"unknown", Priority("urgent"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.priority.IsValid(); got != test.want {
				t.Errorf("IsValid() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Errorf("priority ranks out of order: high=%d medium=%d low=%d",
			PriorityHigh.Rank(), PriorityMedium.Rank(), PriorityLow.Rank())
	}
}

func TestIdentityPublicStripsCredential(t *testing.T) {
	ident := &Identity{
		ID:           "u1",
		Email:        "alice@example.com",
		Name:         "Alice",
		PasswordHash: "$argon2id$...",
	}

	user := ident.Public()
	if user.ID != ident.ID || user.Email != ident.Email || user.Name != ident.Name {
		t.Errorf("Public() lost fields: %+v", user)
	}
}
