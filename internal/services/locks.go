package services

import "sync"

// keyedMutex сериализует операции по ключу. Используется для переименований
// файлов: два конкурентных rename одного вложения не должны гоняться.
// Записи живут только пока ключ кем-то удерживается или ожидается, поэтому
// карта не растёт с каждым новым вложением.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uint64]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uint64]*lockEntry)}
}

func (k *keyedMutex) Lock(key uint64) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()
	entry.mu.Lock()
}

func (k *keyedMutex) Unlock(key uint64) {
	k.mu.Lock()
	entry := k.locks[key]
	if entry == nil {
		k.mu.Unlock()
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
	entry.mu.Unlock()
}
