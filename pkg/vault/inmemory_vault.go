package vault

import (
	"errors"
	"sync"
)

var (
	ErrNotFound = errors.New("vault: record not found")
	ErrExists   = errors.New("vault: record exists")
)

type InMemoryVault struct {
	lock    sync.RWMutex
	records map[string][]byte
	order   []string
}

func NewInMemoryVault() *InMemoryVault {
	return &InMemoryVault{
		records: make(map[string][]byte),
	}
}

func (store *InMemoryVault) Import(id string, data []byte) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	if _, ok := store.records[id]; ok {
		return ErrExists
	}
	store.records[id] = append([]byte(nil), data...)
	store.order = append(store.order, id)
	return nil
}

func (store *InMemoryVault) Get(id string) ([]byte, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	data, ok := store.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (store *InMemoryVault) Delete(id string) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	if _, ok := store.records[id]; !ok {
		return ErrNotFound
	}
	delete(store.records, id)
	for i, v := range store.order {
		if v == id {
			store.order = append(store.order[:i], store.order[i+1:]...)
			break
		}
	}
	return nil
}

func (store *InMemoryVault) IDs() []string {
	store.lock.RLock()
	defer store.lock.RUnlock()

	return append([]string(nil), store.order...)
}
