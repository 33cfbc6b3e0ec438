package test

import (
	"combinaapi/models"
	"combinaapi/services"
	"combinaapi/store"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	var body string
	if param != nil {
		body = JsonString(param)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

type userClaims struct {
	Type string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

func signToken(subject, tokenType string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, userClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	t, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Fatalf("Error when signing user token for %s. Error %s ", subject, err)
	}
	return t
}

func GenerateUserToken(userID string) string {
	return signToken(userID, "")
}

func GenerateAnonymousToken(anonID string) string {
	return signToken(anonID, "anonymous")
}

func NewJSONAuthRequest(method string, target string, userID string, param interface{}) *http.Request {
	req := NewJSONRequest(method, target, param)
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", GenerateUserToken(userID)))
	return req
}

func NewJSONAuthRequestCustomAuth(method string, target string, authorizationString string, param interface{}) *http.Request {
	req := NewJSONRequest(method, target, param)
	req.Header.Add("Authorization", authorizationString)
	return req
}

func NewRefString(data string) *string {
	return &data
}

// MemoryUserStore is a mutex-guarded store.UserStore.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.UserAccount
	// UpdateErr, when set, fails every UpdateUser call
	UpdateErr   error
	UpdateCalls int
}

func NewMemoryUserStore(users ...*models.UserAccount) *MemoryUserStore {
	s := &MemoryUserStore{users: map[string]*models.UserAccount{}}
	for _, u := range users {
		s.users[u.ID] = cloneUser(u)
	}
	return s
}

func cloneUser(u *models.UserAccount) *models.UserAccount {
	c := *u
	c.RecentOutfits = nil
	for _, o := range u.RecentOutfits {
		o.Items = slices.Clone(o.Items)
		c.RecentOutfits = append(c.RecentOutfits, o)
	}
	return &c
}

func (s *MemoryUserStore) GetUser(ctx context.Context, id string) (*models.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *MemoryUserStore) CreateUser(ctx context.Context, user *models.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *MemoryUserStore) UpdateUser(ctx context.Context, id string, fn store.UpdateFunc) (*models.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls++
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	working := cloneUser(u)
	if err := fn(working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()
	s.users[id] = cloneUser(working)
	return working, nil
}

// FakeGenerativeClient replays scripted responses in order; the last one
// repeats once the script runs out. An entry in Errors at the same index
// fails that call instead.
type FakeGenerativeClient struct {
	mu        sync.Mutex
	Responses []string
	Errors    []error
	Requests  []services.CompletionRequest
}

func NewFakeGenerativeClient(responses ...string) *FakeGenerativeClient {
	return &FakeGenerativeClient{Responses: responses}
}

func (f *FakeGenerativeClient) Complete(ctx context.Context, req services.CompletionRequest) (*services.LLMResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.Requests)
	f.Requests = append(f.Requests, req)
	if i < len(f.Errors) && f.Errors[i] != nil {
		return nil, f.Errors[i]
	}
	if len(f.Responses) == 0 {
		return nil, errors.New("no scripted response")
	}
	return &services.LLMResponse{Response: f.Responses[min(i, len(f.Responses)-1)], IsTest: true}, nil
}

func (f *FakeGenerativeClient) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

func (f *FakeGenerativeClient) Request(i int) services.CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Requests[i]
}

// MemoryAnonymousCounter counts anonymous uses per id and day.
type MemoryAnonymousCounter struct {
	mu     sync.Mutex
	counts map[string]int
	Err    error
}

func NewMemoryAnonymousCounter() *MemoryAnonymousCounter {
	return &MemoryAnonymousCounter{counts: map[string]int{}}
}

func (m *MemoryAnonymousCounter) Count(ctx context.Context, anonID, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return m.counts[anonID+":"+date], nil
}

func (m *MemoryAnonymousCounter) Increment(ctx context.Context, anonID, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.counts[anonID+":"+date]++
	return m.counts[anonID+":"+date], nil
}

type URLCacheMock struct {
	Err error
}

func (m URLCacheMock) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return "https://cache.example.com/" + objectKey, nil
}

type AWSProviderMock struct {
	MockUrl string
}

func (awsService AWSProviderMock) InitPresignClient(ctx context.Context) error {
	return nil
}

func (awsService AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	return awsService.MockUrl, nil
}

// HistoryEnqueuerMock records deferred history writes.
type HistoryEnqueuerMock struct {
	mu      sync.Mutex
	Entries []models.RecentOutfit
	UserIDs []string
}

func (m *HistoryEnqueuerMock) EnqueueHistoryRecord(ctx context.Context, userID string, entry models.RecentOutfit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UserIDs = append(m.UserIDs, userID)
	m.Entries = append(m.Entries, entry)
	return nil
}

// OutfitJSON renders a generative answer selecting ids.
func OutfitJSON(ids ...string) string {
	items := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]string{"id": id, "name": "item " + id, "category": "look"})
	}
	return JsonString(map[string]interface{}{
		"items":          items,
		"description":    "A clean, comfortable look.",
		"suggestion_tip": "Roll the sleeves once.",
	})
}
