package mailgun

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// MaxMessageSize bounds the combined size of attachments and inline files
	MaxMessageSize = 25 * 1024 * 1024
	// MaxTags is the number of tags a single message may carry
	MaxTags = 3
	// MaxDeliveryDelay is how far ahead a message can be scheduled
	MaxDeliveryDelay = 3 * 24 * time.Hour
)

// Address is an email address with an optional display name
type Address struct {
	Email string
	Name  string
}

// NewAddress creates an address, name may be empty
func NewAddress(email, name string) Address {
	return Address{Email: email, Name: name}
}

// String formats the address as `"Name" <email>` or the bare email
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%q <%s>", a.Name, a.Email)
}

// Attachment is a named binary payload
type Attachment struct {
	Filename string
	Data     []byte
}

// NewAttachment creates an attachment from memory. Only the base name of
// filename is kept.
func NewAttachment(filename string, data []byte) (Attachment, error) {
	if err := requireArg("filename", filename); err != nil {
		return Attachment{}, err
	}
	if data == nil {
		return Attachment{}, &ArgumentError{Argument: "data", Reason: "must not be nil"}
	}
	return Attachment{Filename: filepath.Base(filename), Data: data}, nil
}

// AttachmentFromFile reads an attachment from disk
func AttachmentFromFile(path string) (Attachment, error) {
	if err := requireArg("path", path); err != nil {
		return Attachment{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}
	return Attachment{Filename: filepath.Base(path), Data: data}, nil
}

// CustomHeader is sent as an h:<Name> field
type CustomHeader struct {
	Name  string
	Value string
}

// CustomData is sent as a v:<Name> field, Data is usually JSON
type CustomData struct {
	Name string
	Data string
}

// Message is an outgoing email
type Message struct {
	From    *Address
	To      []Address
	Cc      []Address
	Bcc     []Address
	Subject string
	Text    string
	HTML    string

	Attachments       []Attachment
	InlineAttachments []Attachment
	Tags              []string

	DKIM             *bool
	DeliveryTime     *time.Time
	TestMode         *bool
	Tracking         *bool
	TrackingClicks   *bool
	TrackingOpens    *bool
	RequireTLS       *bool
	SkipVerification *bool

	Headers []CustomHeader
	Data    []CustomData
}

// Validate checks the composition rules enforced before sending
func (m *Message) Validate() error {
	return m.validateAt(time.Now())
}

func (m *Message) validateAt(now time.Time) error {
	if m.From == nil || m.From.Email == "" {
		return &ValidationError{Field: "from", Message: "no sender"}
	}
	if len(m.To) == 0 {
		return &ValidationError{Field: "to", Message: "no recipient"}
	}
	if m.Subject == "" {
		return &ValidationError{Field: "subject", Message: "no message subject"}
	}
	if m.Text == "" && m.HTML == "" {
		return &ValidationError{Field: "text", Message: "no message body"}
	}
	if len(m.Tags) > MaxTags {
		return &ValidationError{Field: "tags", Message: fmt.Sprintf("too many tags, at most %d allowed", MaxTags)}
	}

	if m.DeliveryTime != nil {
		if m.DeliveryTime.Before(now) {
			return &ValidationError{Field: "deliverytime", Message: "invalid delivery time"}
		}
		if m.DeliveryTime.Sub(now) > MaxDeliveryDelay {
			return &ValidationError{Field: "deliverytime", Message: "maximum delivery time is exceeded"}
		}
	}

	var size int
	for _, group := range [][]Attachment{m.Attachments, m.InlineAttachments} {
		for _, a := range group {
			if a.Filename == "" {
				return &ValidationError{Field: "attachment", Message: "attachment without file name"}
			}
			size += len(a.Data)
		}
	}
	if size > MaxMessageSize {
		return &ValidationError{Field: "attachment", Message: "maximum message size is exceeded"}
	}

	return nil
}

func (m *Message) form() (*Form, error) {
	form := NewForm()
	form.AddValue("from", m.From.String())
	form.AddStrings("to", addressStrings(m.To))
	form.AddStrings("cc", addressStrings(m.Cc))
	form.AddStrings("bcc", addressStrings(m.Bcc))
	form.AddValue("subject", m.Subject)
	form.AddString("text", optional(m.Text))
	form.AddString("html", optional(m.HTML))
	form.AddFiles("attachment", m.Attachments)
	form.AddFiles("inline", m.InlineAttachments)
	form.AddStrings("o:tag", m.Tags)
	form.AddBool("o:dkim", m.DKIM, BoolYesNo)
	if m.DeliveryTime != nil {
		form.AddValue("o:deliverytime", m.DeliveryTime.UTC().Format(http.TimeFormat))
	}
	form.AddBool("o:testmode", m.TestMode, BoolYesNo)
	form.AddBool("o:tracking", m.Tracking, BoolYesNo)
	form.AddBool("o:tracking-clicks", m.TrackingClicks, BoolYesNo)
	form.AddBool("o:tracking-opens", m.TrackingOpens, BoolYesNo)
	form.AddBool("o:require-tls", m.RequireTLS, BoolTrueFalse)
	form.AddBool("o:skip-verification", m.SkipVerification, BoolTrueFalse)

	for _, h := range m.Headers {
		if h.Name == "" {
			return nil, &ValidationError{Field: "headers", Message: "header without name"}
		}
		form.AddValue("h:"+h.Name, h.Value)
	}
	for _, d := range m.Data {
		if d.Name == "" {
			return nil, &ValidationError{Field: "data", Message: "custom data without name"}
		}
		form.AddValue("v:"+d.Name, d.Data)
	}

	return form, nil
}

func addressStrings(addrs []Address) []string {
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, a.String())
	}
	return out
}

// SendMessage validates msg and posts it to the domain's messages endpoint
func (c *Client) SendMessage(ctx context.Context, msg *Message) (Result[SendMessageResponse], error) {
	if msg == nil {
		return Result[SendMessageResponse]{}, &ArgumentError{Argument: "message", Reason: "must not be nil"}
	}
	if err := msg.Validate(); err != nil {
		return Result[SendMessageResponse]{}, err
	}

	form, err := msg.form()
	if err != nil {
		return Result[SendMessageResponse]{}, err
	}

	return send[SendMessageResponse](ctx, c.pipeline, &request{
		operation: "send_message",
		method:    http.MethodPost,
		path:      endpoint(c.domain, "messages"),
		form:      form,
	}), nil
}

// SendSimpleMessage sends an HTML message to one recipient with DKIM on
func (c *Client) SendSimpleMessage(ctx context.Context, from Address, to Address, subject, html string, requireTLS bool) (Result[SendMessageResponse], error) {
	if err := requireArgs("from", from.Email, "to", to.Email, "subject", subject, "html", html); err != nil {
		return Result[SendMessageResponse]{}, err
	}

	return c.SendMessage(ctx, &Message{
		From:       &from,
		To:         []Address{to},
		Subject:    subject,
		HTML:       html,
		DKIM:       Bool(true),
		RequireTLS: Bool(requireTLS),
	})
}

// SendMessageToList sends an HTML message to every member of list@domain
func (c *Client) SendMessageToList(ctx context.Context, list string, from Address, subject, html string, requireTLS bool) (Result[SendMessageResponse], error) {
	if err := requireArgs("list", list, "from", from.Email, "subject", subject, "html", html); err != nil {
		return Result[SendMessageResponse]{}, err
	}

	return c.SendSimpleMessage(ctx, from, Address{Email: list + "@" + c.domain}, subject, html, requireTLS)
}
