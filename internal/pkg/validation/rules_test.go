package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Title  string `validate:"required,notblank"`
	Course string `validate:"omitempty,scopename"`
}

func TestRules(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{name: "plain", input: sample{Title: "t"}, valid: true},
		{name: "encoded course", input: sample{Title: "t", Course: "Data!Structures"}, valid: true},
		{name: "blank title", input: sample{Title: " \t "}, valid: false},
		{name: "course of separators only", input: sample{Title: "t", Course: "   "}, valid: false},
		{name: "course too long", input: sample{Title: "t", Course: strings.Repeat("é", ScopeNameMaxLength+1)}, valid: false},
		{name: "course at limit", input: sample{Title: "t", Course: strings.Repeat("é", ScopeNameMaxLength)}, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
