package decode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDecodesAValidRecord(t *testing.T) {
	input := `{"actor":"A","target":"B","created_time":"2024-01-01T16:19:01Z"}` + "\n"
	dec := NewDecoder(strings.NewReader(input))

	event, ok := dec.Next()
	require.True(t, ok)
	assert.Equal(t, "A", event.Actor)
	assert.Equal(t, "B", event.Target)

	_, ok = dec.Next()
	assert.False(t, ok)
	assert.NoError(t, dec.Err())
}

func TestNextSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`not json at all`,
		`{"actor":"","target":"B","created_time":"2024-01-01T16:19:01Z"}`,
		`{"actor":"A","target":"B","created_time":"not-a-time"}`,
		`{"actor":"A","target":"B","created_time":"2024-01-01T16:19:01Z"}`,
	}, "\n")

	dec := NewDecoder(strings.NewReader(input))
	event, ok := dec.Next()
	require.True(t, ok)
	assert.Equal(t, "A", event.Actor)

	_, ok = dec.Next()
	assert.False(t, ok)
}

func TestNextRejectsMissingFields(t *testing.T) {
	input := `{"actor":"A","created_time":"2024-01-01T16:19:01Z"}` + "\n"
	dec := NewDecoder(strings.NewReader(input))

	_, ok := dec.Next()
	assert.False(t, ok)
}
