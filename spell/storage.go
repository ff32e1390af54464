package spell

import (
	"cmp"
	"fmt"
	"slices"
)

type Storager[K comparable, V any] interface {
	Put(k K, v V) error
	Get(k K) (V, error)
	Delete(k K) error
	Keys() []K
}

// MemStore owns its map from a single goroutine; all access goes through
// channels.
type MemStore[K cmp.Ordered, V any] struct {
	putChan    chan *entryOf[K, V]
	readChan   chan *getRequest[K, V]
	deleteChan chan K
	keysChan   chan chan []K
	quitChan   chan struct{}
	data       map[K]V
}

type entryOf[K cmp.Ordered, V any] struct {
	key K
	val V
}

type getRequest[K cmp.Ordered, V any] struct {
	key      K
	response chan<- *lookupResult[V]
}

type lookupResult[V any] struct {
	v      V
	exists bool
}

func NewMemStore[K cmp.Ordered, V any]() *MemStore[K, V] {
	s := &MemStore[K, V]{
		putChan:    make(chan *entryOf[K, V]),
		readChan:   make(chan *getRequest[K, V]),
		deleteChan: make(chan K),
		keysChan:   make(chan chan []K),
		quitChan:   make(chan struct{}),
		data:       make(map[K]V),
	}

	go s.handleAccess()
	return s
}

func (s *MemStore[K, V]) handleAccess() {
	for {
		select {
		case e := <-s.putChan:
			s.data[e.key] = e.val
		case req := <-s.readChan:
			v, ok := s.data[req.key]
			req.response <- &lookupResult[V]{
				v:      v,
				exists: ok,
			}
		case k := <-s.deleteChan:
			delete(s.data, k)
		case resp := <-s.keysChan:
			keys := make([]K, 0, len(s.data))
			for k := range s.data {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			resp <- keys
		case <-s.quitChan:
			return
		}
	}
}

func (ms *MemStore[K, V]) Put(k K, v V) error {
	ms.putChan <- &entryOf[K, V]{key: k, val: v}
	return nil
}

func (ms *MemStore[K, V]) Get(k K) (V, error) {
	respCh := make(chan *lookupResult[V], 1)
	ms.readChan <- &getRequest[K, V]{
		key:      k,
		response: respCh,
	}
	resp := <-respCh
	if !resp.exists {
		var empty V
		return empty, fmt.Errorf("key %v does not exist in store", k)
	}
	return resp.v, nil
}

func (ms *MemStore[K, V]) Delete(k K) error {
	ms.deleteChan <- k
	return nil
}

// Keys returns the stored keys in ascending order.
func (ms *MemStore[K, V]) Keys() []K {
	resp := make(chan []K, 1)
	ms.keysChan <- resp
	return <-resp
}

// Close stops the store goroutine. The store must not be used afterwards.
func (ms *MemStore[K, V]) Close() {
	close(ms.quitChan)
}
