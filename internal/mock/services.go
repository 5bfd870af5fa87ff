package mock

import (
	"context"
	"io"
	"sync"
)

// ImageStore is an in-memory image store recording what was saved and deleted.
type ImageStore struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
	SaveErr error
}

func NewImageStore() *ImageStore {
	return &ImageStore{Objects: map[string][]byte{}}
}

func (s *ImageStore) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if s.SaveErr != nil {
		return "", s.SaveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[name] = b
	return "https://img.test/" + name, nil
}

func (s *ImageStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, name)
	s.Deleted = append(s.Deleted, name)
	return nil
}

// Publisher records published jobs.
type Publisher struct {
	mu   sync.Mutex
	Jobs []any
	Err  error
}

func (p *Publisher) PublishJSON(_ context.Context, body any) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Jobs = append(p.Jobs, body)
	return nil
}
