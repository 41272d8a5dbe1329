//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sarukas/midi2text/cmd"
	"github.com/sarukas/midi2text/model"
	"github.com/stretchr/testify/assert"
)

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) (*http.Response, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		panic(err.Error())
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	handler(w, req)

	resp := w.Result()
	respBody, _ := io.ReadAll(resp.Body)
	return resp, respBody
}

func TestEncodeEndpoint(t *testing.T) {
	resp, body := postJSON(t, cmd.HandleEncode, "/encode", model.EncodeRequest{
		Notation: "C4. D4.. E4...",
		Channel:  2,
		Velocity: 100,
		NoteOff:  "off",
		BPM:      120,
	})

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)
	assert.NotEmpty(resp.Header.Get("X-Request-Id"))

	var out model.EncodeResponse
	assert.NoError(json.Unmarshal(body, &out))
	assert.Equal("91 3C 64 91 3E 64 91 40 64", out.Hex)
	assert.Empty(out.Skipped)
}

func TestEncodeEndpointRejectsBadChannel(t *testing.T) {
	resp, body := postJSON(t, cmd.HandleEncode, "/encode", model.EncodeRequest{
		Notation: "C4.",
		Channel:  17,
	})

	assert := assert.New(t)
	assert.Equal(400, resp.StatusCode)

	var out model.ErrorResponse
	assert.NoError(json.Unmarshal(body, &out))
	assert.NotEmpty(out.Error)
}

func TestEncodeEndpointReportsSkippedTokens(t *testing.T) {
	resp, body := postJSON(t, cmd.HandleEncode, "/encode", model.EncodeRequest{
		Notation: "C4. H9 D4..",
	})

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var out model.EncodeResponse
	assert.NoError(json.Unmarshal(body, &out))
	assert.Len(out.Skipped, 1)
}

func TestDecodeEndpoint(t *testing.T) {
	resp, body := postJSON(t, cmd.HandleDecode, "/decode", model.DecodeRequest{
		Hex: "91 3C 64 81 3C 00 91 3E 64 81 3E 00",
	})

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var out model.DecodeResponse
	assert.NoError(json.Unmarshal(body, &out))
	// durations quantize to the 1-tick floor since the bytes arrive
	// with no elapsed time between them
	assert.Equal("C4. D4.", out.Notation)
}

func TestEncodeDecodeRoundTripPitches(t *testing.T) {
	resp, body := postJSON(t, cmd.HandleEncode, "/encode", model.EncodeRequest{
		Notation: "C4... E4. G4......",
		NoteOff:  "auto",
	})
	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var encoded model.EncodeResponse
	assert.NoError(json.Unmarshal(body, &encoded))

	resp, body = postJSON(t, cmd.HandleDecode, "/decode", model.DecodeRequest{
		Hex: encoded.Hex,
	})
	assert.Equal(200, resp.StatusCode)

	var decoded model.DecodeResponse
	assert.NoError(json.Unmarshal(body, &decoded))
	assert.Equal("C4. E4. G4.", decoded.Notation)
}
