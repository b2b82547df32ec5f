package keyval

import (
	"context"
	"sync"
)

var _ Store = (*TestStore)(nil)

// TestStore is an in-memory Store used in unit tests of the packages
// that persist through keyval
type TestStore struct {
	mutex  sync.Mutex
	values map[string]string

	// when set, returned by every call, to exercise failure paths
	ForcedErr error
}

func NewTestStore() *TestStore {
	return &TestStore{
		values: make(map[string]string),
	}
}

func (ts *TestStore) Get(_ context.Context, key string) (string, error) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.ForcedErr != nil {
		return "", ts.ForcedErr
	}

	val, ok := ts.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (ts *TestStore) Set(_ context.Context, key, value string) error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.ForcedErr != nil {
		return ts.ForcedErr
	}

	ts.values[key] = value
	return nil
}

func (ts *TestStore) Del(_ context.Context, keys ...string) error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.ForcedErr != nil {
		return ts.ForcedErr
	}

	for _, key := range keys {
		delete(ts.values, key)
	}
	return nil
}

// AllValues returns a copy of the stored values, for test assertions
func (ts *TestStore) AllValues() map[string]string {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	valuesCopy := make(map[string]string, len(ts.values))
	for k, v := range ts.values {
		valuesCopy[k] = v
	}
	return valuesCopy
}
