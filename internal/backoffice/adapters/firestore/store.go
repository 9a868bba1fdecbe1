package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

const (
	productsCollection  = "products"
	customersCollection = "customers"
	ordersCollection    = "orders"
	usersCollection     = "users"
)

// NewClient opens a Firestore client. An empty credentialsFile falls back to
// application default credentials, which also covers FIRESTORE_EMULATOR_HOST.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}

// Store implements ports.Store on top of Firestore collections.
//
// Firestore transactions require every read to happen before the first write,
// so writes made through transactional repositories are buffered and flushed
// once the transaction function returns successfully.
type Store struct {
	client *firestore.Client
}

func NewStore(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Products() ports.ProductRepository   { return &productRepo{s.scope()} }
func (s *Store) Customers() ports.CustomerRepository { return &customerRepo{s.scope()} }
func (s *Store) Orders() ports.OrderRepository       { return &orderRepo{s.scope()} }
func (s *Store) Users() ports.UserRepository         { return &userRepo{s.scope()} }

func (s *Store) scope() scope {
	return scope{client: s.client}
}

// WithinTx runs fn inside a Firestore transaction. Firestore may retry fn on
// contention, so fn must not keep state across attempts.
func (s *Store) WithinTx(ctx context.Context, fn ports.TxFunc) error {
	return runTx(ctx, s.client, func(ctx context.Context, sc scope) error {
		return fn(ctx, txRepos{sc})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.Collections(ctx).GetAll(); err != nil {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}

type txRepos struct {
	sc scope
}

func (t txRepos) Products() ports.ProductRepository   { return &productRepo{t.sc} }
func (t txRepos) Customers() ports.CustomerRepository { return &customerRepo{t.sc} }
func (t txRepos) Orders() ports.OrderRepository       { return &orderRepo{t.sc} }
func (t txRepos) Users() ports.UserRepository         { return &userRepo{t.sc} }

func runTx(ctx context.Context, client *firestore.Client, fn func(ctx context.Context, sc scope) error) error {
	return client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		state := &txState{tx: tx, pending: make(map[string]*pendingWrite)}
		if err := fn(ctx, scope{client: client, tx: state}); err != nil {
			return err
		}
		return state.flush()
	})
}

// pendingWrite is a buffered write. value holds the domain object so reads
// later in the same transaction observe it; data is what gets persisted.
type pendingWrite struct {
	ref     *firestore.DocumentRef
	value   any
	data    any
	create  bool
	deleted bool
}

type txState struct {
	tx      *firestore.Transaction
	pending map[string]*pendingWrite
	order   []string
}

func (t *txState) put(w *pendingWrite) {
	path := w.ref.Path
	if prev, ok := t.pending[path]; ok {
		// a document created earlier in this transaction is still a create
		w.create = w.create || prev.create
	} else {
		t.order = append(t.order, path)
	}
	t.pending[path] = w
}

func (t *txState) flush() error {
	for _, path := range t.order {
		w := t.pending[path]
		var err error
		switch {
		case w.deleted && w.create:
			continue
		case w.deleted:
			err = t.tx.Delete(w.ref)
		case w.create:
			err = t.tx.Create(w.ref, w.data)
		default:
			err = t.tx.Set(w.ref, w.data)
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// scope routes repository calls either to the client or to an open transaction.
type scope struct {
	client *firestore.Client
	tx     *txState
}

func (sc scope) col(name string) *firestore.CollectionRef {
	return sc.client.Collection(name)
}

// mutate runs fn transactionally. Outside WithinTx every mutation gets its own
// short transaction so read-modify-write sequences stay atomic.
func (sc scope) mutate(ctx context.Context, fn func(ctx context.Context, sc scope) error) error {
	if sc.tx != nil {
		return fn(ctx, sc)
	}
	return runTx(ctx, sc.client, fn)
}

func (sc scope) set(ref *firestore.DocumentRef, value, data any) {
	sc.tx.put(&pendingWrite{ref: ref, value: value, data: data})
}

func (sc scope) create(ref *firestore.DocumentRef, value, data any) {
	sc.tx.put(&pendingWrite{ref: ref, value: value, data: data, create: true})
}

func (sc scope) remove(ref *firestore.DocumentRef) {
	sc.tx.put(&pendingWrite{ref: ref, deleted: true})
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// getDoc loads one document. The boolean is false when it does not exist.
func getDoc[T any](ctx context.Context, sc scope, ref *firestore.DocumentRef, decode func(*firestore.DocumentSnapshot) (T, error)) (T, bool, error) {
	var zero T

	var (
		snap *firestore.DocumentSnapshot
		err  error
	)
	if sc.tx != nil {
		if w, ok := sc.tx.pending[ref.Path]; ok {
			if w.deleted {
				return zero, false, nil
			}
			return w.value.(T), true, nil
		}
		snap, err = sc.tx.tx.Get(ref)
	} else {
		snap, err = ref.Get(ctx)
	}

	if isNotFound(err) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get %s: %w", ref.Path, err)
	}

	value, err := decode(snap)
	if err != nil {
		return zero, false, fmt.Errorf("decode %s: %w", ref.Path, err)
	}
	return value, true, nil
}

// queryDocs runs q and decodes every result. Inside a transaction, buffered
// writes to the collection override query results and keep decides which
// buffered documents belong to the result.
func queryDocs[T any](ctx context.Context, sc scope, collection string, q firestore.Query, decode func(*firestore.DocumentSnapshot) (T, error), keep func(T) bool) ([]T, error) {
	var it *firestore.DocumentIterator
	if sc.tx != nil {
		it = sc.tx.tx.Documents(q)
	} else {
		it = q.Documents(ctx)
	}
	defer it.Stop()

	var out []T
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		if sc.tx != nil {
			if _, ok := sc.tx.pending[snap.Ref.Path]; ok {
				continue
			}
		}
		value, err := decode(snap)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.Path, err)
		}
		out = append(out, value)
	}

	if sc.tx != nil {
		for _, path := range sc.tx.order {
			w := sc.tx.pending[path]
			if w.deleted || w.ref.Parent.ID != collection {
				continue
			}
			if value := w.value.(T); keep(value) {
				out = append(out, value)
			}
		}
	}
	return out, nil
}
