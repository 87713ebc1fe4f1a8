package fncall

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_DirectParse(t *testing.T) {
	args, ok := Decode(`{"action": "create", "title": "Buy milk", "priority": 2}`)
	require.True(t, ok)

	want := map[string]interface{}{
		"action":   "create",
		"title":    "Buy milk",
		"priority": float64(2),
	}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Repairs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]interface{}
	}{
		{
			name: "trailing comma before brace",
			raw:  `{"action": "create", "title": "Gym",}`,
			want: map[string]interface{}{"action": "create", "title": "Gym"},
		},
		{
			name: "trailing comma before bracket",
			raw:  `{"ids": ["a", "b",]}`,
			want: map[string]interface{}{"ids": []interface{}{"a", "b"}},
		},
		{
			name: "trailing comma with whitespace",
			raw:  "{\"action\": \"list\", \n}",
			want: map[string]interface{}{"action": "list"},
		},
		{
			name: "truncated after complete value",
			raw:  `{"action": "update", "progress": 40`,
			want: map[string]interface{}{"action": "update", "progress": float64(40)},
		},
		{
			name: "truncated mid string value",
			raw:  `{"action": "create", "title": "Plan the tri`,
			want: map[string]interface{}{"action": "create", "title": "Plan the tri"},
		},
		{
			name: "truncated inside nested array",
			raw:  `{"items": [{"title": "a"}, {"title": "b"`,
			want: map[string]interface{}{
				"items": []interface{}{
					map[string]interface{}{"title": "a"},
					map[string]interface{}{"title": "b"},
				},
			},
		},
		{
			name: "truncated on dangling escape",
			raw:  `{"note": "say \"hi\`,
			want: map[string]interface{}{"note": `say "hi`},
		},
		{
			name: "braces inside strings do not confuse the scanner",
			raw:  `{"note": "a {weird] string", "n": 1`,
			want: map[string]interface{}{"note": "a {weird] string", "n": float64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, ok := Decode(tt.raw)
			require.True(t, ok, "expected repair to succeed")
			if diff := cmp.Diff(tt.want, args); diff != "" {
				t.Errorf("arguments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_NeverGuessesValues(t *testing.T) {
	// A payload cut right after a key cannot be completed without
	// inventing a value, so it must fail rather than guess.
	tests := []string{
		`{"title": "Trip", "loc`,
		`{"title": "Trip", "count":`,
		`not json at all`,
		``,
		`[1, 2, 3]`, // valid JSON but not an object
	}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			args, ok := Decode(raw)
			assert.False(t, ok)
			assert.Nil(t, args)
		})
	}
}

func TestParse_PreservesRawOnFailure(t *testing.T) {
	raw := `{"title": "Trip", "loc`
	parsed, err := Parse("manage_events", raw)
	require.Error(t, err)
	assert.Nil(t, parsed)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, raw, de.Raw)
}

func TestParse_Success(t *testing.T) {
	parsed, err := Parse("manage_tasks", `{"action": "create", "title": "Buy milk"}`)
	require.NoError(t, err)

	assert.Equal(t, "manage_tasks", parsed.Name)
	assert.Equal(t, `{"action": "create", "title": "Buy milk"}`, parsed.RawArguments)
	assert.Equal(t, "create", parsed.Arguments["action"])
}

func TestRepair_Idempotent(t *testing.T) {
	raw := `{"a": [1, 2,`
	once := repair(raw)
	twice := repair(once)
	assert.Equal(t, once, twice)
}
