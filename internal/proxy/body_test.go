package proxy

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBodyJSON(t *testing.T) {
	body, err := buildBody(BodyTypeJSON, `{"name":"test","count":3}`)
	require.Nil(t, err)
	assert.Equal(t, `{"name":"test","count":3}`, string(body.payload))
	assert.Equal(t, "application/json", body.contentType)
}

func TestBuildBodyInvalidJSON(t *testing.T) {
	body, err := buildBody(BodyTypeJSON, `{"name": unquoted}`)
	assert.Nil(t, body)
	require.NotNil(t, err)
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "Invalid JSON in request body", err.Message)
}

func TestBuildBodyURLEncoded(t *testing.T) {
	body, err := buildBody(BodyTypeURLEncoded, "a=1&b=two")
	require.Nil(t, err)
	assert.Equal(t, "a=1&b=two", string(body.payload))
	assert.Equal(t, "application/x-www-form-urlencoded", body.contentType)
}

func TestBuildBodyRawVariants(t *testing.T) {
	for _, bt := range []BodyType{BodyTypeRaw, BodyTypeBinary, ""} {
		body, err := buildBody(bt, "anything goes <>&")
		require.Nil(t, err)
		assert.Equal(t, "anything goes <>&", string(body.payload))
		assert.Empty(t, body.contentType)
	}
}

func TestBuildBodyUnsupportedType(t *testing.T) {
	body, err := buildBody("graphql", "query {}")
	assert.Nil(t, body)
	require.NotNil(t, err)
	assert.Equal(t, "Unsupported body type", err.Message)
}

func TestBuildBodyFormData(t *testing.T) {
	body, err := buildBody(BodyTypeFormData, "name=alice\ngreeting=hello%20world\nequation=a%3Db=c")
	require.Nil(t, err)
	assert.True(t, strings.HasPrefix(body.contentType, "multipart/form-data; boundary="))

	fields := parseMultipartFields(t, body)
	assert.Equal(t, "alice", fields["name"])
	assert.Equal(t, "hello world", fields["greeting"])
	// Value may contain '='; only the first one splits.
	assert.Equal(t, "a=b=c", fields["equation"])
}

func TestBuildBodyFormDataSkipsMalformedLines(t *testing.T) {
	body, err := buildBody(BodyTypeFormData, "valid=yes\nno-separator\n\nbad%zz=1\nother=ok\r\n")
	require.Nil(t, err)

	fields := parseMultipartFields(t, body)
	assert.Equal(t, map[string]string{"valid": "yes", "other": "ok"}, fields)
}

func parseMultipartFields(t *testing.T, body *outboundBody) map[string]string {
	t.Helper()

	_, params, err := mime.ParseMediaType(body.contentType)
	require.NoError(t, err)

	fields := make(map[string]string)
	reader := multipart.NewReader(bytes.NewReader(body.payload), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		value, err := io.ReadAll(part)
		require.NoError(t, err)
		fields[part.FormName()] = string(value)
	}
	return fields
}
