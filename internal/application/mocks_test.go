package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockBackend struct {
	mu       sync.Mutex
	requests []driven.BackendRequest

	do       func(req driven.BackendRequest) (*driven.BackendResponse, error)
	download func(req driven.BackendRequest) (*model.Download, error)
}

func (m *mockBackend) Do(_ context.Context, req driven.BackendRequest) (*driven.BackendResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.do == nil {
		return okResponse(nil), nil
	}
	return m.do(req)
}

func (m *mockBackend) Download(_ context.Context, req driven.BackendRequest) (*model.Download, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.download == nil {
		return &model.Download{}, nil
	}
	return m.download(req)
}

func (m *mockBackend) last() driven.BackendRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

// okResponse wraps data in a success envelope.
func okResponse(data any) *driven.BackendResponse {
	return envelopeResponse(model.Envelope{Code: model.SuccessCode}, data)
}

func envelopeResponse(env model.Envelope, data any) *driven.BackendResponse {
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			panic(err)
		}
		env.Data = raw
	}
	return &driven.BackendResponse{StatusCode: 200, Payload: model.JSONPayload{Envelope: env}}
}

// jsonBody renders a request body the way the pipeline would.
func jsonBody(req driven.BackendRequest) string {
	raw, err := json.Marshal(req.Body)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

type mockCredentialStore struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{values: make(map[string]string)}
}

func (m *mockCredentialStore) Set(_ context.Context, slot, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.values[slot] = value
	return nil
}

func (m *mockCredentialStore) Get(_ context.Context, slot string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[slot], nil
}

func (m *mockCredentialStore) List(_ context.Context) ([]model.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	creds := make([]model.Credential, 0, len(m.values))
	for slot, value := range m.values {
		creds = append(creds, model.Credential{Slot: slot, Value: value})
	}
	return creds, nil
}

func (m *mockCredentialStore) Delete(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, slot)
	return nil
}

type mockNavigator struct {
	mu        sync.Mutex
	redirects []string
}

func (m *mockNavigator) RedirectToLogin(_ context.Context, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redirects = append(m.redirects, message)
}

var errBoom = errors.New("boom")
