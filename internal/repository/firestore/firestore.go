// Package firestore implements the repository contracts on Google Cloud
// Firestore. Matches and players are one document each; statistics documents
// are keyed playerID_matchID so the unique pair is enforced by the store.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/youthfc/team-manager-service/internal/repository"
)

const (
	playersCollection = "players"
	matchesCollection = "matches"
	statsCollection   = "statistics"
)

// readAll drains a document iterator, decoding every document into T.
func readAll[T any](iter *firestore.DocumentIterator) ([]T, error) {
	defer iter.Stop()
	var out []T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, repository.MapStoreError(err)
		}
		var item T
		if err := doc.DataTo(&item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// paginate windows an in-process result set. Collections for a single squad
// stay small, so reading then slicing beats juggling cursor tokens.
func paginate[T any](items []T, p repository.Page) repository.PageResult[T] {
	total := len(items)
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return repository.PageResult[T]{Items: []T{}, Total: total}
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return repository.PageResult[T]{Items: items[offset:end], Total: total}
}

type pinger struct{ client *firestore.Client }

// NewPinger adapts the Firestore client to the repository.Pinger interface.
// Listing one collection page is the cheapest request that exercises both
// credentials and connectivity.
func NewPinger(client *firestore.Client) repository.Pinger { return &pinger{client: client} }

func (p *pinger) Ping(ctx context.Context) error {
	_, err := p.client.Collections(ctx).Next()
	if err != nil && err != iterator.Done {
		return repository.MapStoreError(err)
	}
	return nil
}

var _ repository.Pinger = (*pinger)(nil)
