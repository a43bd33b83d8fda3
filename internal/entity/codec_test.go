package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		typ  FieldType
		val  any
	}{
		{"string", TypeString, "chancellor"},
		{"empty string", TypeString, ""},
		{"int", TypeInt, 42},
		{"zero int", TypeInt, 0},
		{"negative int", TypeInt, -7},
		{"bool true", TypeBool, true},
		{"bool false", TypeBool, false},
		{"csv", TypeCSV, []string{"a", "b", "c"}},
		{"empty csv", TypeCSV, []string{}},
		{"single csv", TypeCSV, []string{"only"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := Encode(tc.typ, tc.val)
			require.NoError(t, err)

			dec, err := Decode(tc.typ, enc)
			require.NoError(t, err)
			require.Equal(t, tc.val, dec)
		})
	}
}

func TestEncodeDecodeJSON(t *testing.T) {
	enc, err := Encode(TypeJSON, map[string]any{"seat": float64(3), "ok": true})
	require.NoError(t, err)

	dec, err := Decode(TypeJSON, enc)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"seat": float64(3), "ok": true}, dec)
}

func TestEncodeTypeMismatch(t *testing.T) {
	_, err := Encode(TypeCSV, "not-a-list")
	require.Error(t, err)

	_, err = Encode(TypeString, 12)
	require.Error(t, err)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(TypeInt, "banana")
	require.Error(t, err)

	_, err = Decode(TypeBool, "")
	require.Error(t, err)
}
