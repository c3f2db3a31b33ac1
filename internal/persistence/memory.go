package persistence

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps documents in process memory. Filters are equality-only and
// updates apply top-level fields, which covers everything the repositories issue.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// Collection returns the named collection, creating it on first use.
func (s *MemoryStore) Collection(name string) Collection {
	return s.collection(name)
}

func (s *MemoryStore) collection(name string) *memoryCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{}
		s.collections[name] = c
	}
	return c
}

// EnsureUnique registers field as a unique key of collection.
func (s *MemoryStore) EnsureUnique(_ context.Context, collection, field string) error {
	c := s.collection(collection)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.unique {
		if existing == field {
			return nil
		}
	}
	c.unique = append(c.unique, field)
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close(context.Context) error { return nil }

type memoryCollection struct {
	mu     sync.RWMutex
	docs   []bson.M
	unique []string
}

func (c *memoryCollection) Find(ctx context.Context, filter bson.M, results any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	want, err := toDocument(filter)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(results)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return errors.New("results must be a pointer to a slice")
	}
	slice := rv.Elem()
	elemType := slice.Type().Elem()

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := reflect.MakeSlice(slice.Type(), 0, len(c.docs))
	for _, doc := range c.docs {
		if !matches(doc, want) {
			continue
		}
		elem := reflect.New(elemType)
		if err := decode(doc, elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	slice.Set(out)
	return nil
}

func (c *memoryCollection) FindOne(ctx context.Context, filter bson.M, result any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	want, err := toDocument(filter)
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(want); i >= 0 {
		return decode(c.docs[i], result)
	}
	return ErrNoDocuments
}

func (c *memoryCollection) InsertOne(ctx context.Context, document any) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	doc, err := toDocument(document)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := doc["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		doc["_id"] = id
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.violatesUnique(doc, -1) {
		return primitive.NilObjectID, ErrDuplicateKey
	}
	c.docs = append(c.docs, doc)
	return id, nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, filter bson.M, set bson.M) (int64, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	want, err := toDocument(filter)
	if err != nil {
		return 0, 0, err
	}
	fields, err := toDocument(set)
	if err != nil {
		return 0, 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(want)
	if i < 0 {
		return 0, 0, nil
	}

	updated := make(bson.M, len(c.docs[i])+len(fields))
	for k, v := range c.docs[i] {
		updated[k] = v
	}
	changed := false
	for k, v := range fields {
		if cur, ok := updated[k]; !ok || !reflect.DeepEqual(cur, v) {
			changed = true
		}
		updated[k] = v
	}
	if !changed {
		return 1, 0, nil
	}
	if c.violatesUnique(updated, i) {
		return 0, 0, ErrDuplicateKey
	}
	c.docs[i] = updated
	return 1, 1, nil
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	want, err := toDocument(filter)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(want)
	if i < 0 {
		return 0, nil
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return 1, nil
}

func (c *memoryCollection) indexOf(filter bson.M) int {
	for i, doc := range c.docs {
		if matches(doc, filter) {
			return i
		}
	}
	return -1
}

// violatesUnique reports whether doc collides with any document other than skip.
func (c *memoryCollection) violatesUnique(doc bson.M, skip int) bool {
	for _, key := range c.unique {
		val, ok := doc[key]
		if !ok {
			continue
		}
		for i, other := range c.docs {
			if i == skip {
				continue
			}
			if existing, ok := other[key]; ok && reflect.DeepEqual(existing, val) {
				return true
			}
		}
	}
	return false
}

func matches(doc, filter bson.M) bool {
	for key, want := range filter {
		got, ok := doc[key]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// toDocument normalizes v through a BSON round trip so typed values compare
// equal to their stored form.
func toDocument(v any) (bson.M, error) {
	if m, ok := v.(bson.M); v == nil || (ok && m == nil) {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decode(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}
