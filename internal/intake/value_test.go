package intake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_UnmarshalJSON(t *testing.T) {
	var responses []Response
	body := `[
		{"questionId":"q1","value":"hello"},
		{"questionId":"q2","value":["a","b"]},
		{"questionId":"q3","value":42.5},
		{"questionId":"q4","value":true}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &responses))
	require.Len(t, responses, 4)

	assert.Equal(t, StringValue("hello"), responses[0].Value)
	assert.Equal(t, KindStrings, responses[1].Value.Kind)
	assert.Equal(t, []string{"a", "b"}, responses[1].Value.Strings)
	assert.Equal(t, KindNumber, responses[2].Value.Kind)
	assert.Equal(t, 42.5, responses[2].Value.Number)
	assert.Equal(t, KindBool, responses[3].Value.Kind)
	assert.True(t, responses[3].Value.Bool)
}

func TestValue_UnmarshalJSON_RejectsOtherShapes(t *testing.T) {
	for _, raw := range []string{`null`, `{"a":1}`, `[1,2]`} {
		var r Response
		body := `{"questionId":"q1","value":` + raw + `}`
		assert.Error(t, json.Unmarshal([]byte(body), &r), raw)
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(StringValue("doc-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `"doc-1"`, string(out))

	out, err = json.Marshal(Value{Kind: KindStrings})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))
}
