package blob

import (
	"context"
	"strings"
	"sync"
)

// Memory keeps blobs in process. URLs are rooted at baseURL.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
	baseURL string
}

type memObject struct {
	body        []byte
	contentType string
}

func NewMemory(baseURL string) *Memory {
	if baseURL == "" {
		baseURL = "/media"
	}
	return &Memory{objects: make(map[string]memObject), baseURL: strings.TrimRight(baseURL, "/")}
}

func (m *Memory) Put(ctx context.Context, key string, body []byte, contentType string) (Object, error) {
	cp := make([]byte, len(body))
	copy(cp, body)
	m.mu.Lock()
	m.objects[key] = memObject{body: cp, contentType: contentType}
	m.mu.Unlock()
	return Object{Key: key, URL: m.URL(key), Size: int64(len(body)), ContentType: contentType}, nil
}

func (m *Memory) Get(key string) ([]byte, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", ErrNotFound
	}
	return obj.body, obj.contentType, nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *Memory) URL(key string) string {
	return m.baseURL + "/" + key
}
