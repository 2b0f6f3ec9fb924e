package mailgun

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// NewMember is one entry of a bulk import
type NewMember struct {
	Email  string
	Params MemberParams
}

// MemberError records a member that could not be added
type MemberError struct {
	Email   string
	Message string
	// StatusCode is 0 for transport and decode failures
	StatusCode int
}

// BatchResult summarizes a bulk import
type BatchResult struct {
	Requested int
	Added     []AddMemberResponse
	Failed    []MemberError
}

// HasErrors reports whether any member failed
func (r BatchResult) HasErrors() bool {
	return len(r.Failed) > 0
}

// AddMembers adds members to list concurrently. Individual failures are
// collected in the result and do not stop the remaining requests; the error
// is only set for invalid arguments.
func (m *ListManager) AddMembers(ctx context.Context, list string, members []NewMember) (BatchResult, error) {
	result := BatchResult{Requested: len(members)}

	if err := requireArg("list", list); err != nil {
		return result, err
	}
	for _, member := range members {
		if err := requireArg("email", member.Email); err != nil {
			return result, err
		}
	}
	if len(members) == 0 {
		return result, nil
	}

	limit := m.concurrency
	if limit <= 0 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex

	for _, member := range members {
		g.Go(func() error {
			res, err := m.AddMember(ctx, list, member.Email, member.Params)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()

			if !res.Successful {
				m.pipeline.logger.Warn().
					Str("list", list).
					Str("member", member.Email).
					Str("error", res.ErrorMessage()).
					Msg("Failed to add member")
				result.Failed = append(result.Failed, MemberError{
					Email:      member.Email,
					Message:    res.ErrorMessage(),
					StatusCode: res.StatusCode(),
				})
				return nil
			}
			result.Added = append(result.Added, res.Response)
			return nil
		})
	}

	// Arguments were checked up front, so Wait only reports programming errors
	if err := g.Wait(); err != nil {
		return result, err
	}

	return result, nil
}
