package statfeed

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/courtstats/internal/domain/boxscore"
)

// MultiPublisher delivers each change to every publisher, even when an earlier one fails.
type MultiPublisher []boxscore.ChangePublisher

func (m MultiPublisher) Publish(ctx context.Context, change boxscore.Change) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, change); err != nil {
			errs = append(errs, err)
		}
	}
	return crerr.Join(errs...)
}
