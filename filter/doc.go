// Package filter evaluates Mailgun route expressions locally.
//
// Expressions such as
//
//	match_recipient(".*@example\.com") and not match_header("subject", "spam")
//
// are compiled with expr and run against an Inbound message, which makes it
// possible to preview which routes a message would trigger before sending it.
package filter
