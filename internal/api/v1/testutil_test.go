package v1_test

import (
	"context"

	"github.com/gosuda/aicrm/internal/dispatch"
	"github.com/gosuda/aicrm/internal/domain"
)

func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	interactions domain.InteractionRepository
}

func (m *mockDataStore) Interactions() domain.InteractionRepository { return m.interactions }

// ---------------------------------------------------------------------------
// Mock InteractionRepository
// ---------------------------------------------------------------------------

type mockInteractionRepo struct {
	createFunc  func(ctx context.Context, f *domain.InteractionFields) (*domain.Interaction, error)
	getByIDFunc func(ctx context.Context, id int64) (*domain.Interaction, error)
	listFunc    func(ctx context.Context, filter domain.InteractionFilter) ([]*domain.Interaction, error)
	updateFunc  func(ctx context.Context, id int64, patch domain.InteractionPatch) (*domain.Interaction, error)
}

func (m *mockInteractionRepo) Create(ctx context.Context, f *domain.InteractionFields) (*domain.Interaction, error) {
	return m.createFunc(ctx, f)
}

func (m *mockInteractionRepo) GetByID(ctx context.Context, id int64) (*domain.Interaction, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockInteractionRepo) List(ctx context.Context, filter domain.InteractionFilter) ([]*domain.Interaction, error) {
	return m.listFunc(ctx, filter)
}

func (m *mockInteractionRepo) Update(ctx context.Context, id int64, patch domain.InteractionPatch) (*domain.Interaction, error) {
	return m.updateFunc(ctx, id, patch)
}

// ---------------------------------------------------------------------------
// Mock agent components
// ---------------------------------------------------------------------------

type mockPlanner struct {
	classifyFunc func(ctx context.Context, text, contextHint string) (*domain.DispatchDecision, error)
}

func (m *mockPlanner) Classify(ctx context.Context, text, contextHint string) (*domain.DispatchDecision, error) {
	return m.classifyFunc(ctx, text, contextHint)
}

type mockExtractor struct {
	extractFunc func(ctx context.Context, rawText, contextHint string) (*domain.InteractionFields, error)
}

func (m *mockExtractor) Extract(ctx context.Context, rawText, contextHint string) (*domain.InteractionFields, error) {
	return m.extractFunc(ctx, rawText, contextHint)
}

type mockDispatcher struct {
	dispatchFunc func(ctx context.Context, decision *domain.DispatchDecision) (*dispatch.Response, error)
}

func (m *mockDispatcher) Dispatch(ctx context.Context, decision *domain.DispatchDecision) (*dispatch.Response, error) {
	return m.dispatchFunc(ctx, decision)
}
