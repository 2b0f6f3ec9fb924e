package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/mgctl/mailgun"
)

var (
	sendFrom       string
	sendTo         []string
	sendCc         []string
	sendBcc        []string
	sendSubject    string
	sendText       string
	sendHTML       string
	sendHTMLFile   string
	sendAttach     []string
	sendInline     []string
	sendTags       []string
	sendHeaders    []string
	sendData       []string
	sendDeliverAt  string
	sendList       string
	sendDKIM       bool
	sendTestMode   bool
	sendTracking   bool
	sendClicks     bool
	sendOpens      bool
	sendRequireTLS bool
	sendSkipVerify bool
)

// sendCmd sends a message
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message",
	Long: `Send a message through the configured domain.

With --list the message goes to <list>@<domain> and only --from, --subject,
--html and --require-tls apply.

Boolean sending options are only sent when their flag is given, so
--dkim=false explicitly disables DKIM while omitting it keeps the domain
default.`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

func init() {
	f := sendCmd.Flags()
	f.StringVar(&sendFrom, "from", "", "sender, as email or \"Name <email>\"")
	f.StringArrayVar(&sendTo, "to", nil, "recipient (repeatable)")
	f.StringArrayVar(&sendCc, "cc", nil, "carbon copy recipient (repeatable)")
	f.StringArrayVar(&sendBcc, "bcc", nil, "blind carbon copy recipient (repeatable)")
	f.StringVar(&sendSubject, "subject", "", "subject")
	f.StringVar(&sendText, "text", "", "plain text body")
	f.StringVar(&sendHTML, "html", "", "HTML body")
	f.StringVar(&sendHTMLFile, "html-file", "", "read the HTML body from a file")
	f.StringArrayVar(&sendAttach, "attach", nil, "attach a file (repeatable)")
	f.StringArrayVar(&sendInline, "inline", nil, "attach an inline file (repeatable)")
	f.StringArrayVar(&sendTags, "tag", nil, "tag, at most 3 (repeatable)")
	f.StringArrayVar(&sendHeaders, "header", nil, "custom header as name=value (repeatable)")
	f.StringArrayVar(&sendData, "data", nil, "custom variable as name=json (repeatable)")
	f.StringVar(&sendDeliverAt, "deliver-at", "", "scheduled delivery time (RFC 3339), at most 3 days ahead")
	f.StringVar(&sendList, "list", "", "send to a mailing list alias instead of --to")
	f.BoolVar(&sendDKIM, "dkim", true, "sign with DKIM")
	f.BoolVar(&sendTestMode, "test-mode", true, "accept the message without delivering it")
	f.BoolVar(&sendTracking, "tracking", true, "enable tracking")
	f.BoolVar(&sendClicks, "tracking-clicks", true, "track clicks")
	f.BoolVar(&sendOpens, "tracking-opens", true, "track opens")
	f.BoolVar(&sendRequireTLS, "require-tls", false, "require TLS for delivery")
	f.BoolVar(&sendSkipVerify, "skip-verification", true, "skip certificate verification")

	_ = sendCmd.MarkFlagRequired("from")
	_ = sendCmd.MarkFlagRequired("subject")
	sendCmd.MarkFlagsMutuallyExclusive("html", "html-file")
	sendCmd.MarkFlagsMutuallyExclusive("list", "to")
}

func runSend(cmd *cobra.Command, args []string) error {
	from, err := parseAddress(sendFrom)
	if err != nil {
		return err
	}

	html := sendHTML
	if sendHTMLFile != "" {
		data, err := os.ReadFile(sendHTMLFile)
		if err != nil {
			return fmt.Errorf("failed to read HTML body: %w", err)
		}
		html = string(data)
	}

	var resp mailgun.SendMessageResponse
	if sendList != "" {
		resp, err = check(client.SendMessageToList(cmd.Context(), sendList, from, sendSubject, html, sendRequireTLS))
	} else {
		var msg *mailgun.Message
		msg, err = buildMessage(cmd, from, html)
		if err != nil {
			return err
		}
		resp, err = check(client.SendMessage(cmd.Context(), msg))
	}
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	logger.Info().Str("id", resp.MessageID).Msg(resp.Status)
	fmt.Printf("✓ Queued %s\n", resp.MessageID)
	return nil
}

func buildMessage(cmd *cobra.Command, from mailgun.Address, html string) (*mailgun.Message, error) {
	msg := &mailgun.Message{
		From:    &from,
		Subject: sendSubject,
		Text:    sendText,
		HTML:    html,
		Tags:    sendTags,
	}

	var err error
	if msg.To, err = parseAddresses(sendTo); err != nil {
		return nil, err
	}
	if msg.Cc, err = parseAddresses(sendCc); err != nil {
		return nil, err
	}
	if msg.Bcc, err = parseAddresses(sendBcc); err != nil {
		return nil, err
	}

	if msg.Attachments, err = loadAttachments(sendAttach); err != nil {
		return nil, err
	}
	if msg.InlineAttachments, err = loadAttachments(sendInline); err != nil {
		return nil, err
	}

	headers, err := parseKeyValues(sendHeaders)
	if err != nil {
		return nil, err
	}
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		msg.Headers = append(msg.Headers, mailgun.CustomHeader{Name: name, Value: headers[name]})
	}

	data, err := parseKeyValues(sendData)
	if err != nil {
		return nil, err
	}
	for _, name := range slices.Sorted(maps.Keys(data)) {
		msg.Data = append(msg.Data, mailgun.CustomData{Name: name, Data: data[name]})
	}

	if sendDeliverAt != "" {
		at, err := time.Parse(time.RFC3339, sendDeliverAt)
		if err != nil {
			return nil, fmt.Errorf("invalid --deliver-at: %w", err)
		}
		msg.DeliveryTime = &at
	}

	flags := cmd.Flags()
	optionalBool := func(name string, v bool) *bool {
		if flags.Changed(name) {
			return mailgun.Bool(v)
		}
		return nil
	}
	msg.DKIM = optionalBool("dkim", sendDKIM)
	msg.TestMode = optionalBool("test-mode", sendTestMode)
	msg.Tracking = optionalBool("tracking", sendTracking)
	msg.TrackingClicks = optionalBool("tracking-clicks", sendClicks)
	msg.TrackingOpens = optionalBool("tracking-opens", sendOpens)
	msg.RequireTLS = optionalBool("require-tls", sendRequireTLS)
	msg.SkipVerification = optionalBool("skip-verification", sendSkipVerify)

	return msg, nil
}

func loadAttachments(paths []string) ([]mailgun.Attachment, error) {
	var attachments []mailgun.Attachment
	for _, path := range paths {
		a, err := mailgun.AttachmentFromFile(path)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, nil
}
