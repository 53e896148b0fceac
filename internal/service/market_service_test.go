package service

import (
	"errors"
	"testing"

	"points_economy/internal/domain"
)

func TestItemInputValidate(t *testing.T) {
	valid := func() ItemInput {
		return ItemInput{Key: "coffee", Name: "Coffee Break", CostCoins: 20}
	}

	tests := []struct {
		name    string
		mutate  func(*ItemInput)
		wantErr bool
	}{
		{"minimal valid", func(in *ItemInput) {}, false},
		{"free item allowed", func(in *ItemInput) { in.CostCoins = 0 }, false},
		{"missing key", func(in *ItemInput) { in.Key = "" }, true},
		{"missing name", func(in *ItemInput) { in.Name = "" }, true},
		{"negative cost", func(in *ItemInput) { in.CostCoins = -1 }, true},
		{"unknown rarity", func(in *ItemInput) { in.Rarity = "mythic" }, true},
		{"known rarity", func(in *ItemInput) { in.Rarity = domain.RarityEpic }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			err := in.validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("err = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("validate() = %v", err)
			}
		})
	}
}

func TestItemInputValidateDefaults(t *testing.T) {
	in := ItemInput{Key: "k", Name: "n"}
	if err := in.validate(); err != nil {
		t.Fatalf("validate() = %v", err)
	}
	if in.Rarity != domain.RarityCommon {
		t.Errorf("rarity default = %q", in.Rarity)
	}
	if in.Category != "general" {
		t.Errorf("category default = %q", in.Category)
	}
	if in.UsesPerPurchase != 1 {
		t.Errorf("uses_per_purchase default = %d", in.UsesPerPurchase)
	}
}
