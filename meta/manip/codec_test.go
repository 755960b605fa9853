package manip

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metakit/meta/enums"
)

func TestEnvelopeJSONShape(t *testing.T) {
	b, err := json.Marshal(Envelope{Manipulation: NewEqp(0b0010<<40, enums.SlotHead, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Type":"Eqp","Manipulation":{"Entry":2199023255552,"SetId":5,"Slot":"Head"}}`, string(b))

	var env Envelope
	require.NoError(t, json.Unmarshal(b, &env))
	assert.True(t, env.Manipulation.Equal(NewEqp(0b0010<<40, enums.SlotHead, 5)))
}

func TestEnvelopeRejectsUnknown(t *testing.T) {
	var env Envelope
	err := json.Unmarshal([]byte(`{"Type":"Foo","Manipulation":{}}`), &env)
	assert.ErrorIs(t, err, ErrUnknownKind)

	err = json.Unmarshal([]byte(`{"Type":"Gmp","Manipulation":{"Bogus":1}}`), &env)
	assert.Error(t, err)
}

func TestDecodeNormalizes(t *testing.T) {
	in := `[{"Type":"eqdp","Manipulation":{"Entry":65535,"Gender":"female","Race":"viera","SetId":3,"Slot":"Feet"}}]`
	s, err := Decode([]byte(in), FormatJSON)
	require.NoError(t, err)
	got := Of[Eqdp](s)
	require.Len(t, got, 1)
	assert.Equal(t, enums.RaceViera, got[0].Race)
	b1, b2 := got[0].Bits()
	assert.True(t, b1 && b2)
	assert.Zero(t, got[0].Entry&^0b11_0000_0000)
}

func TestSetRoundTripFormats(t *testing.T) {
	s := NewSet(sample()...)
	for _, f := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(s, f)
		require.NoError(t, err)
		back, err := Decode(data, f)
		require.NoError(t, err)
		assert.True(t, s.Equal(back), string(data))
	}
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("edits.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("edits.yml"))
	assert.Equal(t, FormatJSON, FormatForPath("edits.json"))
	assert.Equal(t, FormatJSON, FormatForPath("edits"))
}
