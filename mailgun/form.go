package mailgun

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
)

// BoolMode selects how a boolean field is written to the form
type BoolMode int

const (
	// BoolTrueFalse writes True / False
	BoolTrueFalse BoolMode = iota
	// BoolYesNo writes yes / no
	BoolYesNo
)

// Format returns the wire text for v
func (m BoolMode) Format(v bool) string {
	if m == BoolYesNo {
		if v {
			return "yes"
		}
		return "no"
	}
	if v {
		return "True"
	}
	return "False"
}

type formField struct {
	name     string
	value    string
	filename string
	data     []byte
}

func (f formField) isFile() bool {
	return f.filename != ""
}

// Form accumulates the fields of a multipart/form-data request body.
// Absent values are skipped entirely rather than written as empty strings.
type Form struct {
	fields []formField
}

// NewForm creates an empty form
func NewForm() *Form {
	return &Form{}
}

// AddValue adds a string field unconditionally
func (f *Form) AddValue(name, value string) {
	f.fields = append(f.fields, formField{name: name, value: value})
}

// AddString adds a string field unless v is nil
func (f *Form) AddString(name string, v *string) {
	if v != nil {
		f.AddValue(name, *v)
	}
}

// AddInt adds a decimal integer field unless v is nil
func (f *Form) AddInt(name string, v *int) {
	if v != nil {
		f.AddValue(name, strconv.Itoa(*v))
	}
}

// AddBool adds a boolean field in the given mode unless v is nil
func (f *Form) AddBool(name string, v *bool, mode BoolMode) {
	if v != nil {
		f.AddValue(name, mode.Format(*v))
	}
}

// AddStrings repeats the field once per value, keeping order
func (f *Form) AddStrings(name string, values []string) {
	for _, v := range values {
		f.AddValue(name, v)
	}
}

// AddVars serializes vars as a JSON object. A nil map is omitted while an
// empty map is written as {}.
func (f *Form) AddVars(name string, vars map[string]string) error {
	if vars == nil {
		return nil
	}
	data, err := json.Marshal(vars)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	f.AddValue(name, string(data))
	return nil
}

// AddFile adds a binary part with the attachment's file name
func (f *Form) AddFile(name string, a Attachment) {
	f.fields = append(f.fields, formField{name: name, filename: a.Filename, data: a.Data})
}

// AddFiles adds one binary part per attachment
func (f *Form) AddFiles(name string, attachments []Attachment) {
	for _, a := range attachments {
		f.AddFile(name, a)
	}
}

// Has reports whether at least one field with this name was added
func (f *Form) Has(name string) bool {
	for _, field := range f.fields {
		if field.name == name {
			return true
		}
	}
	return false
}

// Values returns the text values of every non-file field with this name
func (f *Form) Values(name string) []string {
	var values []string
	for _, field := range f.fields {
		if field.name == name && !field.isFile() {
			values = append(values, field.value)
		}
	}
	return values
}

// Get returns the first value of the named field
func (f *Form) Get(name string) string {
	if values := f.Values(name); len(values) > 0 {
		return values[0]
	}
	return ""
}

// Files returns the file names of every file field with this name
func (f *Form) Files(name string) []string {
	var names []string
	for _, field := range f.fields {
		if field.name == name && field.isFile() {
			names = append(names, field.filename)
		}
	}
	return names
}

// Len returns the number of fields
func (f *Form) Len() int {
	return len(f.fields)
}

// Encode writes the multipart body and returns it with its content type
func (f *Form) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if field.isFile() {
			part, err := w.CreateFormFile(field.name, field.filename)
			if err != nil {
				return nil, "", fmt.Errorf("failed to create file part %s: %w", field.name, err)
			}
			if _, err := part.Write(field.data); err != nil {
				return nil, "", fmt.Errorf("failed to write file part %s: %w", field.name, err)
			}
			continue
		}
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", field.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// String returns a pointer to s, for optional form values
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b, for optional form values
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to i, for optional form values
func Int(i int) *int {
	return &i
}

// optional maps the empty string to an absent value
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
