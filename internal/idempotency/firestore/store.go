package firestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

const collection = "idempotency_keys"

type responseDoc struct {
	Key        string    `firestore:"key"`
	StatusCode int       `firestore:"statusCode"`
	Body       []byte    `firestore:"body"`
	OrderID    string    `firestore:"orderId"`
	CreatedAt  time.Time `firestore:"createdAt"`
}

// Store keeps order-placement responses in the idempotency_keys collection.
type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Keys are client supplied, so documents are addressed by their hash.
func (s *Store) ref(key string) *firestore.DocumentRef {
	sum := sha256.Sum256([]byte(key))
	return s.client.Collection(collection).Doc(hex.EncodeToString(sum[:]))
}

func (s *Store) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	snap, err := s.ref(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency key: %w", err)
	}

	var doc responseDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode idempotency key: %w", err)
	}
	return &ports.StoredResponse{
		StatusCode: doc.StatusCode,
		Body:       doc.Body,
		OrderID:    doc.OrderID,
	}, nil
}

// Save keeps the first response stored for a key.
func (s *Store) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	_, err := s.ref(key).Create(ctx, responseDoc{
		Key:        key,
		StatusCode: response.StatusCode,
		Body:       response.Body,
		OrderID:    response.OrderID,
		CreatedAt:  time.Now().UTC(),
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create idempotency key: %w", err)
	}
	return nil
}
