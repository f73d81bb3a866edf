package validator

import "testing"

type dateField struct {
	Date string `validate:"isodate"`
}

type blankField struct {
	Name string `validate:"notblank"`
}

type recurrenceField struct {
	Recurring string `validate:"recurrence"`
}

func TestISODate(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"2025-06-15", true},
		{"2025-6-15", false},
		{"15.06.2025", false},
		{"2025-06-15T00:00:00Z", false},
		{"", false},
	}

	for _, tt := range tests {
		err := Validate.Struct(dateField{Date: tt.value})
		if (err == nil) != tt.valid {
			t.Errorf("isodate(%q): valid = %v, want %v", tt.value, err == nil, tt.valid)
		}
	}
}

func TestNotBlank(t *testing.T) {
	if err := Validate.Struct(blankField{Name: "   "}); err == nil {
		t.Error("whitespace-only string must fail notblank")
	}
	if err := Validate.Struct(blankField{Name: " rent "}); err != nil {
		t.Errorf("non-blank string failed: %v", err)
	}
}

func TestRecurrence(t *testing.T) {
	for _, v := range []string{"once", "daily", "weekly", "monthly", "yearly"} {
		if err := Validate.Struct(recurrenceField{Recurring: v}); err != nil {
			t.Errorf("recurrence %q must be valid: %v", v, err)
		}
	}
	if err := Validate.Struct(recurrenceField{Recurring: "biweekly"}); err == nil {
		t.Error("unknown recurrence must fail")
	}
}
