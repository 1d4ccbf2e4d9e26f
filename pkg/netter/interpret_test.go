package netter

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestInterpretSuccessObject(t *testing.T) {
	res := Interpret(Outcome{StatusCode: intPtr(200), Body: []byte(`{"ok":true}`)})

	require.True(t, res.OK())
	assert.Equal(t, map[string]any{"ok": true}, res.Value())
	assert.Equal(t, KindNone, res.Kind())
	assert.Empty(t, res.Message())
	assert.NoError(t, res.Err())
}

func TestInterpretAllowsFragments(t *testing.T) {
	cases := []string{`"hello"`, `42`, `3.5`, `true`, `false`, `null`, `[1,"a",{}]`, ` {"a":[null]} `}
	for _, body := range cases {
		res := Interpret(ResponseOutcome(200, []byte(body)))
		require.True(t, res.OK(), "body %s", body)

		var want any
		require.NoError(t, json.Unmarshal([]byte(body), &want))
		assert.Equal(t, want, res.Value(), "body %s", body)
	}
}

func TestInterpretTypedAccessors(t *testing.T) {
	s, ok := Interpret(ResponseOutcome(200, []byte(`"x"`))).StringValue()
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	n, ok := Interpret(ResponseOutcome(200, []byte(`7`))).Number()
	assert.True(t, ok)
	assert.Equal(t, 7.0, n)

	b, ok := Interpret(ResponseOutcome(200, []byte(`true`))).Bool()
	assert.True(t, ok)
	assert.True(t, b)

	arr, ok := Interpret(ResponseOutcome(200, []byte(`[1]`))).Array()
	assert.True(t, ok)
	assert.Len(t, arr, 1)

	assert.True(t, Interpret(ResponseOutcome(200, []byte(`null`))).IsNull())

	_, ok = Interpret(ResponseOutcome(200, []byte(`[1]`))).Object()
	assert.False(t, ok)
}

func TestInterpretMalformedJSON(t *testing.T) {
	for _, body := range []string{`{not json`, ``, `{"a":1}{`, `nul`} {
		res := Interpret(ResponseOutcome(200, []byte(body)))
		require.False(t, res.OK(), "body %q", body)
		assert.Equal(t, "Failed to retrieve JSON response", res.Message())
		assert.Equal(t, KindParse, res.Kind())
	}
}

func TestInterpretRejectsInvalidUTF8(t *testing.T) {
	for _, body := range []string{"\"\xff\"", "{\"a\":\"\xc3\x28\"}", "[\"ok\", \"\xed\xa0\x80\"]"} {
		res := Interpret(ResponseOutcome(200, []byte(body)))
		require.False(t, res.OK(), "body %q", body)
		assert.Equal(t, MsgParseFailed, res.Message())
		assert.Equal(t, KindParse, res.Kind())
	}

	res := Interpret(ResponseOutcome(200, []byte(`"héllo ✓"`)))
	require.True(t, res.OK())
	v, _ := res.StringValue()
	assert.Equal(t, "héllo ✓", v)
}

func TestInterpretTransportErrorWins(t *testing.T) {
	outcomes := []Outcome{
		{TransportError: "timed out"},
		{StatusCode: intPtr(200), Body: []byte(`{"ok":true}`), TransportError: "timed out"},
		{StatusCode: intPtr(500), Body: []byte(`oops`), TransportError: "timed out"},
	}
	for _, o := range outcomes {
		res := Interpret(o)
		require.False(t, res.OK())
		assert.Equal(t, "timed out", res.Message())
		assert.Equal(t, KindTransport, res.Kind())
	}
}

func TestInterpretMissingStatus(t *testing.T) {
	res := Interpret(Outcome{Body: []byte(`{}`)})
	assert.False(t, res.OK())
	assert.Equal(t, "invalid response", res.Message())
	assert.Equal(t, KindMalformedResponse, res.Kind())
}

func TestInterpretMissingBody(t *testing.T) {
	res := Interpret(Outcome{StatusCode: intPtr(200)})
	assert.False(t, res.OK())
	assert.Equal(t, "no data returned", res.Message())
	assert.Equal(t, KindMalformedResponse, res.Kind())
}

func TestInterpretHTTPErrors(t *testing.T) {
	res := Interpret(Outcome{StatusCode: intPtr(404), Body: []byte{}})
	require.False(t, res.OK())
	assert.Equal(t, "HTTP error 404", res.Message())
	assert.Equal(t, KindHTTP, res.Kind())
	assert.True(t, res.IsNotFound())
	assert.False(t, res.IsServerError())

	res = Interpret(ResponseOutcome(503, []byte(`{"error":"down"}`)))
	assert.Equal(t, "HTTP error 503", res.Message())
	assert.True(t, res.IsServerError())
	assert.Equal(t, 503, res.StatusCode())

	res = Interpret(ResponseOutcome(201, []byte(`{}`)))
	assert.Equal(t, "HTTP error 201", res.Message())
}

func TestResultErrCarriesKind(t *testing.T) {
	err := Interpret(ResponseOutcome(500, nil)).Err()
	require.Error(t, err)

	var nerr *Error
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, KindHTTP, nerr.Kind)
	assert.Equal(t, 500, nerr.StatusCode)
	assert.Equal(t, "HTTP error 500", err.Error())
}

func TestFailureFromError(t *testing.T) {
	_, buildErr := Build("PUT")
	res := FailureFromError(buildErr)
	assert.Equal(t, KindInvalidMethod, res.Kind())
	assert.ErrorIs(t, res.Err(), ErrInvalidMethod)

	res = FailureFromError(errors.New("dial tcp: refused"))
	assert.Equal(t, KindTransport, res.Kind())
	assert.Equal(t, "dial tcp: refused", res.Message())
}

func TestResultDecode(t *testing.T) {
	res := Interpret(ResponseOutcome(200, []byte(`{"name":"netter","stars":3}`)))

	var out struct {
		Name  string `json:"name"`
		Stars int    `json:"stars"`
	}
	require.NoError(t, res.Decode(&out))
	assert.Equal(t, "netter", out.Name)
	assert.Equal(t, 3, out.Stars)

	assert.Error(t, Interpret(ErrorOutcome("boom")).Decode(&out))
}

func TestResultMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Interpret(ResponseOutcome(200, []byte(`{"ok":true}`))))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"value":{"ok":true},"status_code":200}`, string(raw))

	raw, err = json.Marshal(Interpret(ResponseOutcome(404, []byte{})))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"HTTP error 404","kind":"http_error","status_code":404}`, string(raw))
}

func TestResultMarshalJSONKeepsNullValue(t *testing.T) {
	raw, err := json.Marshal(Interpret(ResponseOutcome(200, []byte(`null`))))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"value":null,"status_code":200}`, string(raw))

	raw, err = json.Marshal(Interpret(ErrorOutcome("connection refused")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"connection refused","kind":"transport_error"}`, string(raw))
}
