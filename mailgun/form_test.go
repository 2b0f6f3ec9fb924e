package mailgun

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

func TestBoolModeFormat(t *testing.T) {
	tests := []struct {
		name string
		mode BoolMode
		in   bool
		want string
	}{
		{"default true", BoolTrueFalse, true, "True"},
		{"default false", BoolTrueFalse, false, "False"},
		{"yes/no true", BoolYesNo, true, "yes"},
		{"yes/no false", BoolYesNo, false, "no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.Format(tt.in))
		})
	}
}

func TestFormOmitsAbsentValues(t *testing.T) {
	form := NewForm()
	form.AddString("name", nil)
	form.AddInt("priority", nil)
	form.AddBool("subscribed", nil, BoolYesNo)
	form.AddStrings("to", nil)
	require.NoError(t, form.AddVars("vars", nil))

	assert.Equal(t, 0, form.Len())
	assert.False(t, form.Has("name"))
	assert.False(t, form.Has("vars"))
}

func TestFormTypedValues(t *testing.T) {
	form := NewForm()
	form.AddString("name", String(""))
	form.AddInt("priority", Int(7))
	form.AddBool("o:require-tls", Bool(true), BoolTrueFalse)
	form.AddBool("o:dkim", Bool(false), BoolYesNo)

	// A present empty string is still sent
	assert.True(t, form.Has("name"))
	assert.Equal(t, "", form.Get("name"))
	assert.Equal(t, "7", form.Get("priority"))
	assert.Equal(t, "True", form.Get("o:require-tls"))
	assert.Equal(t, "no", form.Get("o:dkim"))
}

func TestFormRepeatsListValues(t *testing.T) {
	form := NewForm()
	form.AddStrings("action", []string{`forward("a")`, "store()", "stop()"})

	assert.Equal(t, []string{`forward("a")`, "store()", "stop()"}, form.Values("action"))
	assert.Equal(t, 3, form.Len())
}

func TestFormVars(t *testing.T) {
	t.Run("empty map is {}", func(t *testing.T) {
		form := NewForm()
		require.NoError(t, form.AddVars("vars", map[string]string{}))
		assert.Equal(t, "{}", form.Get("vars"))
	})

	t.Run("map is json", func(t *testing.T) {
		form := NewForm()
		require.NoError(t, form.AddVars("vars", map[string]string{"age": "42"}))
		assert.JSONEq(t, `{"age":"42"}`, form.Get("vars"))
	})
}

func TestFormEncode(t *testing.T) {
	form := NewForm()
	form.AddValue("address", "test1@mg.example.com")
	form.AddStrings("to", []string{"a@example.com", "b@example.com"})
	form.AddFile("attachment", Attachment{Filename: "report.csv", Data: []byte("a,b\n1,2\n")})

	body, contentType, err := form.Encode()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	var names []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		data, err := io.ReadAll(part)
		require.NoError(t, err)

		names = append(names, part.FormName())
		if part.FormName() == "attachment" {
			assert.Equal(t, "report.csv", part.FileName())
			assert.True(t, strings.HasPrefix(string(data), "a,b"))
		}
	}

	assert.Equal(t, []string{"address", "to", "to", "attachment"}, names)
	assert.Equal(t, []string{"report.csv"}, form.Files("attachment"))
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))
	require.NotNil(t, optional("x"))
	assert.Equal(t, "x", *optional("x"))
}
