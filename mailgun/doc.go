// Package mailgun provides a client for the Mailgun HTTP API.
//
// It covers mailing lists, list members, inbound routes and message sending.
// Every call maps onto a single multipart/form-data (or bodiless GET/DELETE)
// request and returns a Result carrying either the decoded response or a
// failure message. Transport errors, non-2xx statuses and decode errors are
// reported through the Result; the returned error is reserved for invalid
// arguments and always matches ErrInvalidArgument.
//
// Example usage:
//
//	client, err := mailgun.NewClient("mg.example.com", "key-...", logger)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	res, err := client.Lists().CreateMailingList(ctx, "news", mailgun.MailingListParams{})
//	if err != nil {
//		return err
//	}
//	if !res.Successful {
//		log.Printf("create failed: %s", res.ErrorMessage())
//	}
//
// Requests share one renewable connection whose pooled transport is
// replaced every hour, bounding how long a stale DNS answer can be reused.
package mailgun
