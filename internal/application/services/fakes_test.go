package services_test

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/entities"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/providers"
	"github.com/zatekoja/wellnessintake/backend/internal/domain/repositories"
	apperrors "github.com/zatekoja/wellnessintake/backend/pkg/errors"
	"github.com/zatekoja/wellnessintake/backend/pkg/version"
)

// memSchemaRepo is an in-memory FormSchemaRepository.
type memSchemaRepo struct {
	mu   sync.Mutex
	rows []entities.FormSchema
}

func (r *memSchemaRepo) ListActive(_ context.Context, locale string) ([]*entities.FormSchema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.FormSchema
	for i := range r.rows {
		if r.rows[i].IsActive && r.rows[i].Locale == locale {
			row := r.rows[i]
			out = append(out, &row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return version.Less(out[i].Version, out[j].Version)
	})
	return out, nil
}

func (r *memSchemaRepo) Get(_ context.Context, name, ver, locale string) (*entities.FormSchema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matches []entities.FormSchema
	var versions []string
	for _, row := range r.rows {
		if row.Name == name && row.Locale == locale && row.IsActive && (ver == "" || row.Version == ver) {
			matches = append(matches, row)
			versions = append(versions, row.Version)
		}
	}
	i := version.Latest(versions)
	if i < 0 {
		return nil, nil
	}
	return &matches[i], nil
}

func (r *memSchemaRepo) Create(_ context.Context, schema *entities.FormSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Name == schema.Name && row.Locale == schema.Locale && row.Version == schema.Version {
			return apperrors.NewDuplicateVersionError(schema.Name+"/"+schema.Locale, schema.Version, nil)
		}
	}
	r.rows = append(r.rows, *schema)
	return nil
}

func (r *memSchemaRepo) Deactivate(_ context.Context, name, ver, locale string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.rows {
		row := &r.rows[i]
		if row.Name == name && row.Locale == locale && (ver == "" || row.Version == ver) {
			row.IsActive = false
			n++
		}
	}
	return n, nil
}

// memPromptRepo is an in-memory PromptRepository.
type memPromptRepo struct {
	mu   sync.Mutex
	rows []entities.PromptSpec
	gets int
}

func (r *memPromptRepo) add(p entities.PromptSpec) {
	p.IsActive = true
	if p.Locale == "" {
		p.Locale = "en-US"
	}
	r.rows = append(r.rows, p)
}

func (r *memPromptRepo) List(_ context.Context, filter repositories.PromptFilter) ([]*entities.PromptSpec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.PromptSpec
	for _, row := range r.rows {
		if filter.FormName != "" && row.FormName != filter.FormName ||
			filter.StageID != "" && row.StageID != filter.StageID ||
			filter.Locale != "" && row.Locale != filter.Locale ||
			filter.IsActive != nil && row.IsActive != *filter.IsActive {
			continue
		}
		row := row
		out = append(out, &row)
	}
	return out, nil
}

func (r *memPromptRepo) ListForForm(ctx context.Context, formName, locale, ver string) ([]*entities.PromptSpec, error) {
	r.mu.Lock()
	stages := map[string]struct{}{}
	for _, row := range r.rows {
		if row.FormName == formName {
			stages[row.StageID] = struct{}{}
		}
	}
	r.mu.Unlock()

	ids := make([]string, 0, len(stages))
	for id := range stages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*entities.PromptSpec
	for _, id := range ids {
		p, _ := r.Get(ctx, formName, id, locale, ver)
		if p != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPromptRepo) Get(_ context.Context, formName, stageID, locale, ver string) (*entities.PromptSpec, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	var matches []entities.PromptSpec
	var versions []string
	for _, row := range r.rows {
		if row.FormName == formName && row.StageID == stageID && row.Locale == locale && row.IsActive &&
			(ver == "" || row.Version == ver) {
			matches = append(matches, row)
			versions = append(versions, row.Version)
		}
	}
	i := version.Latest(versions)
	if i < 0 {
		return nil, nil
	}
	return &matches[i], nil
}

func (r *memPromptRepo) Create(_ context.Context, prompt *entities.PromptSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.FormName == prompt.FormName && row.StageID == prompt.StageID &&
			row.Locale == prompt.Locale && row.Version == prompt.Version {
			return apperrors.NewDuplicateVersionError(prompt.FormName+"/"+prompt.StageID+"/"+prompt.Locale, prompt.Version, nil)
		}
	}
	r.rows = append(r.rows, *prompt)
	return nil
}

func (r *memPromptRepo) Deactivate(_ context.Context, formName, stageID, ver, locale string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.rows {
		row := &r.rows[i]
		if row.FormName == formName && row.StageID == stageID && row.Locale == locale && (ver == "" || row.Version == ver) {
			row.IsActive = false
			n++
		}
	}
	return n, nil
}

// memOverrideRepo is an in-memory OverrideRepository.
type memOverrideRepo struct {
	mu    sync.Mutex
	rows  map[string]entities.PromptOverride
	calls int
}

func newMemOverrideRepo() *memOverrideRepo {
	return &memOverrideRepo{rows: map[string]entities.PromptOverride{}}
}

func (r *memOverrideRepo) Get(_ context.Context, stageID string) (*entities.PromptOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	row, ok := r.rows[stageID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *memOverrideRepo) ListAll(_ context.Context) ([]*entities.PromptOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := []*entities.PromptOverride{}
	for _, row := range r.rows {
		row := row
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StageID < out[j].StageID })
	return out, nil
}

func (r *memOverrideRepo) Upsert(_ context.Context, stageID string, patch entities.OverridePatch) (*entities.PromptOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	now := time.Now().UTC()
	row, ok := r.rows[stageID]
	if !ok {
		row = entities.PromptOverride{StageID: stageID, CreatedAt: now}
	}
	if patch.QuestionPrompt != nil {
		v := *patch.QuestionPrompt
		row.QuestionPrompt = &v
	}
	if patch.ExtractionPrompt != nil {
		v := *patch.ExtractionPrompt
		row.ExtractionPrompt = &v
	}
	row.UpdatedAt = now
	r.rows[stageID] = row
	return &row, nil
}

func (r *memOverrideRepo) Clear(_ context.Context, stageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	delete(r.rows, stageID)
	return nil
}

// memCache is an in-memory CacheProvider.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *memCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
			c.deleted = append(c.deleted, key)
		}
	}
	return nil
}

func (c *memCache) SetNX(_ context.Context, key string, value []byte, _ int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = value
	return true, nil
}

func (c *memCache) CompareAndSwap(_ context.Context, key string, expected, value []byte, _ int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.data[key]; !ok || !bytes.Equal(current, expected) {
		return false, nil
	}
	c.data[key] = value
	return true, nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// chanEventBus delivers published events to in-process subscribers.
type chanEventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.OverrideEvent
}

func newChanEventBus() *chanEventBus {
	return &chanEventBus{subscribers: map[string][]chan *entities.OverrideEvent{}}
}

func (b *chanEventBus) Publish(_ context.Context, channel string, event *entities.OverrideEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers[channel] {
		ch <- event
	}
	return nil
}

func (b *chanEventBus) Subscribe(_ context.Context, channel string) (<-chan *entities.OverrideEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *entities.OverrideEvent, 10)
	b.subscribers[channel] = append(b.subscribers[channel], ch)
	return ch, nil
}

func (b *chanEventBus) Unsubscribe(_ context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, channel)
	return nil
}

func (b *chanEventBus) Close() error { return nil }

func (b *chanEventBus) subscriberCount(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers[channel])
}

// mockSessionRepository is a testify mock of WellnessSessionRepository.
type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, session *entities.WellnessSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepository) GetByID(ctx context.Context, id, userID string) (*entities.WellnessSession, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WellnessSession), args.Error(1)
}

func (m *mockSessionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.WellnessSession, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*entities.WellnessSession), args.Error(1)
}

func (m *mockSessionRepository) Update(ctx context.Context, id, userID string, update entities.WellnessSessionUpdate) (*entities.WellnessSession, error) {
	args := m.Called(ctx, id, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WellnessSession), args.Error(1)
}

func (m *mockSessionRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepository) SummarizeUsers(ctx context.Context) ([]*entities.UserSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.UserSummary), args.Error(1)
}

// mockCoachRepository is a testify mock of CoachRepository.
type mockCoachRepository struct {
	mock.Mock
}

func (m *mockCoachRepository) List(ctx context.Context) ([]*entities.Coach, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entities.Coach), args.Error(1)
}

func (m *mockCoachRepository) GetByID(ctx context.Context, id string) (*entities.Coach, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Coach), args.Error(1)
}

func (m *mockCoachRepository) UpdatePromptContent(ctx context.Context, id, content string) (*entities.Coach, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Coach), args.Error(1)
}

func (m *mockCoachRepository) EnsureCoach(ctx context.Context, coach *entities.Coach) (bool, error) {
	args := m.Called(ctx, coach)
	return args.Bool(0), args.Error(1)
}

func strPtr(s string) *string { return &s }
