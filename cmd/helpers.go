package cmd

import (
	"bufio"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"

	"github.com/s0up4200/mgctl/mailgun"
)

// check unwraps a manager call into its response or the error to report
func check[T any](res mailgun.Result[T], err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	if !res.Successful {
		var zero T
		return zero, res.Err()
	}
	return res.Response, nil
}

// parseKeyValues parses repeated key=value flags into a map
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair: %q", pair)
		}
		values[key] = value
	}
	return values, nil
}

// parseAddress parses "Name <email>" or a bare email
func parseAddress(s string) (mailgun.Address, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return mailgun.Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return mailgun.NewAddress(addr.Address, addr.Name), nil
}

// parseAddresses parses every entry of a repeated address flag
func parseAddresses(values []string) ([]mailgun.Address, error) {
	addrs := make([]mailgun.Address, 0, len(values))
	for _, v := range values {
		addr, err := parseAddress(v)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// parseMemberLines reads one member per line as "email[,name]". Blank lines
// and lines starting with # are skipped.
func parseMemberLines(r io.Reader) ([]mailgun.NewMember, error) {
	var members []mailgun.NewMember

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		email, name, _ := strings.Cut(line, ",")
		email = strings.TrimSpace(email)
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("line %d: invalid email %q", lineNo, email)
		}

		members = append(members, mailgun.NewMember{
			Email:  email,
			Params: mailgun.MemberParams{Name: strings.TrimSpace(name)},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}

	return members, nil
}

// confirm asks a yes/no question on stdin
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// orDash renders an empty value as a dash
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to max runes
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
