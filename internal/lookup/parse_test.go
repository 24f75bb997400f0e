package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		kind  ParseKind
		count int
	}{
		{"bare number", "25000", ParseResolved, 25000},
		{"number with commas", "25,000", ParseResolved, 25000},
		{"number with whitespace", "  45000\n", ParseResolved, 45000},
		{"number in prose", "Toyota has approximately 30000 employees in Japan.", ParseResolved, 30000},
		{"prose with commas", "Around 1,200 employees.", ParseResolved, 1200},
		{"zero", "0", ParseResolved, 0},
		{"unknown", "Unknown", ParseNotFound, 0},
		{"unknown lowercase", "unknown", ParseNotFound, 0},
		{"unknown in prose", "I'm sorry, the count is unknown to me.", ParseNotFound, 0},
		{"no data", "There is no data on this company.", ParseNotFound, 0},
		{"no information", "I have no information about their presence there.", ParseNotFound, 0},
		{"not available", "That figure is not available.", ParseNotFound, 0},
		{"empty", "", ParseUnparseable, 0},
		{"whitespace only", "   \n", ParseUnparseable, 0},
		{"no number", "quite a lot of people", ParseUnparseable, 0},
		{"negative number", "-500", ParseUnparseable, 0},
		{"decimal number", "2.5", ParseUnparseable, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCount(tt.text)
			assert.Equal(t, tt.kind, got.Kind)
			if tt.kind == ParseResolved {
				assert.Equal(t, tt.count, got.Count)
			}
		})
	}
}

func TestParseKind_String(t *testing.T) {
	assert.Equal(t, "resolved", ParseResolved.String())
	assert.Equal(t, "not_found", ParseNotFound.String())
	assert.Equal(t, "unparseable", ParseUnparseable.String())
	assert.Equal(t, "unknown", ParseKind(99).String())
}
