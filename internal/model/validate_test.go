package model

import (
	"strings"
	"testing"
)

func TestItemValidate(t *testing.T) {
	tests := []struct {
		name string
		item Item
		ok   bool
	}{
		{"minimal", Item{Name: "Lamp"}, true},
		{"full", Item{Name: "Lamp", Description: "Desk lamp", Condition: ConditionGood, Notes: "New bulb"}, true},
		{"empty name", Item{Name: ""}, false},
		{"name at bound", Item{Name: strings.Repeat("a", MaxNameLen)}, true},
		{"name over bound", Item{Name: strings.Repeat("a", MaxNameLen+1)}, false},
		{"multibyte runes count as one", Item{Name: strings.Repeat("ž", MaxNameLen)}, true},
		{"bad condition", Item{Name: "Lamp", Condition: "Mint"}, false},
		{"notes over bound", Item{Name: "Lamp", Notes: strings.Repeat("n", MaxNotesLen+1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !IsKind(err, KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestBinValidate(t *testing.T) {
	if err := (&Bin{Name: "Box", Location: strings.Repeat("l", MaxLocationLen)}).Validate(); err != nil {
		t.Errorf("expected location at bound to pass, got %v", err)
	}
	if err := (&Bin{Name: "Box", Location: strings.Repeat("l", MaxLocationLen+1)}).Validate(); !IsKind(err, KindValidation) {
		t.Errorf("expected validation error for oversized location, got %v", err)
	}
}

func TestValidCondition(t *testing.T) {
	for _, c := range []string{"", ConditionGood, ConditionDamaged, ConditionBroken} {
		if !ValidCondition(c) {
			t.Errorf("expected %q to be valid", c)
		}
	}
	if ValidCondition("good") {
		t.Error("conditions are case-sensitive, 'good' must be rejected")
	}
}

func TestPatchValidateChecksOnlySetFields(t *testing.T) {
	// A patch with nothing set is trivially valid.
	if err := (&ItemPatch{}).Validate(); err != nil {
		t.Errorf("empty patch: %v", err)
	}

	// Clearing a required name fails even though the wrapper is set.
	if err := (&ItemPatch{Name: NullString()}).Validate(); !IsKind(err, KindValidation) {
		t.Errorf("expected validation error clearing name, got %v", err)
	}

	// A bad value in a set field fails.
	if err := (&ItemPatch{Condition: String("Mint")}).Validate(); !IsKind(err, KindValidation) {
		t.Errorf("expected validation error for bad condition, got %v", err)
	}
}
