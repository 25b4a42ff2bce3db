package commission

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
)

const DefaultMaxDepth = 32

type PartnerReader interface {
	GetPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)
}

// ChainBuilder walks referred-by links from a partner up to the root.
type ChainBuilder struct {
	partners PartnerReader
	maxDepth int
}

func NewChainBuilder(partners PartnerReader, maxDepth int) *ChainBuilder {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &ChainBuilder{
		partners: partners,
		maxDepth: maxDepth,
	}
}

// Build returns the chain ordered from the most distant ancestor to the
// partner itself. A missing ancestor ends the chain at the last partner
// found. Revisiting a partner or exceeding the depth bound is an error.
func (b *ChainBuilder) Build(ctx context.Context, partnerID string) ([]domain.ChainLink, error) {
	subject, err := b.partners.GetPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	links := []domain.ChainLink{domain.ChainLinkFromPartner(subject)}
	visited := map[string]struct{}{subject.ID: {}}

	current := subject
	for current.ReferredBy != nil && *current.ReferredBy != "" {
		nextID := *current.ReferredBy
		if _, seen := visited[nextID]; seen {
			return nil, fmt.Errorf("%w: partner %s revisited from %s", domain.ErrReferralCycle, nextID, current.ID)
		}

		next, err := b.partners.GetPartnerByID(ctx, nextID)
		if errors.Is(err, domain.ErrPartnerNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load upliner %s: %w", nextID, err)
		}
		// links holds the subject, so its length is the upliner count after the append.
		if len(links) > b.maxDepth {
			return nil, fmt.Errorf("%w: more than %d upliners above %s", domain.ErrChainTooDeep, b.maxDepth, partnerID)
		}

		visited[next.ID] = struct{}{}
		links = append(links, domain.ChainLinkFromPartner(next))
		current = next
	}

	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
	return links, nil
}
