package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection         = "users"
	listingsCollection      = "animals"
	requestsCollection      = "requests"
	requestGuardsCollection = "requestGuards"
	chatsCollection         = "chats"
	messagesCollection      = "messages"
)

const defaultStoreTimeout = 10 * time.Second

// store bounds every point read and write with the configured timeout.
// Snapshot listeners are long-lived and do not use it.
type store struct {
	client  *firestore.Client
	timeout time.Duration
}

func newStore(client *firestore.Client, timeout time.Duration) store {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return store{client: client, timeout: timeout}
}

func (s store) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// decodeAll drains a document iterator into freshly allocated T values.
// setID receives each document's key since ids are not stored in the body.
func decodeAll[T any](iter *firestore.DocumentIterator, setID func(*T, string)) ([]*T, error) {
	defer iter.Stop()

	var out []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		item := new(T)
		if err := doc.DataTo(item); err != nil {
			return nil, err
		}
		setID(item, doc.Ref.ID)
		out = append(out, item)
	}
	return out, nil
}
