package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
	"github.com/xavierca1/sdr-dashboard/internal/infra/memory"
	"github.com/xavierca1/sdr-dashboard/internal/usecase"
)

type scorerFunc func(ctx context.Context, lead entity.Lead) (entity.Qualification, error)

func (f scorerFunc) Score(ctx context.Context, lead entity.Lead) (entity.Qualification, error) {
	return f(ctx, lead)
}

type drafterFunc func(ctx context.Context, lead entity.Lead) (entity.EmailDraft, error)

func (f drafterFunc) Draft(ctx context.Context, lead entity.Lead) (entity.EmailDraft, error) {
	return f(ctx, lead)
}

type slotsFunc func(ctx context.Context, tz string) ([]entity.Slot, error)

func (f slotsFunc) ProposeSlots(ctx context.Context, tz string) ([]entity.Slot, error) {
	return f(ctx, tz)
}

type fixture struct {
	dispatcher *usecase.Dispatcher
	router     http.Handler
}

func newFixture(t *testing.T, scorer usecase.Scorer, drafter usecase.Drafter, slots usecase.SlotProvider) *fixture {
	t.Helper()

	store := memory.NewLeadStore()
	require.NoError(t, store.Load(entity.SeedLeads(time.Now())))

	session := usecase.NewSession(time.Millisecond, nil)
	t.Cleanup(session.Close)

	d := usecase.NewDispatcher(store, scorer, drafter, slots, nil, nil, session, nil, "UTC")

	leads := NewLeadHandler(d)
	sessions := NewSessionHandler(d)

	r := chi.NewRouter()
	r.Get("/leads", leads.List)
	r.Get("/stats", leads.Stats)
	r.Route("/leads/{id}", func(r chi.Router) {
		r.Get("/", leads.Get)
		r.Post("/qualify", leads.Qualify)
		r.Post("/compose", leads.Compose)
		r.Post("/slots", leads.ProposeSlots)
		r.Get("/slots", leads.GetSlots)
		r.Post("/advance", leads.Advance)
		r.Post("/email", leads.LogEmail)
		r.Post("/send", leads.Send)
		r.Get("/draft", leads.GetDraft)
		r.Put("/draft", leads.PutDraft)
		r.Delete("/draft", leads.DeleteDraft)
	})
	r.Get("/session", sessions.Get)
	r.Put("/session/filters", sessions.PutFilters)
	r.Put("/session/search", sessions.PutSearch)
	r.Get("/session/view", sessions.View)
	r.Delete("/session/error", sessions.DismissError)

	return &fixture{dispatcher: d, router: r}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func fixedScore(score int) scorerFunc {
	return func(context.Context, entity.Lead) (entity.Qualification, error) {
		return entity.Qualification{Score: score, Reasons: []string{"fit"}}, nil
	}
}

func TestListLeadsQuery(t *testing.T) {
	f := newFixture(t, fixedScore(80), nil, nil)

	rec := f.do(t, http.MethodGet, "/leads?minScore=50&sort=asc", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	leads := decode[[]entity.Lead](t, rec)
	require.Len(t, leads, 3)
	assert.Equal(t, []string{"l4", "l1", "l3"}, []string{leads[0].ID, leads[1].ID, leads[2].ID})

	rec = f.do(t, http.MethodGet, "/leads?q=RETAIL", nil)
	leads = decode[[]entity.Lead](t, rec)
	require.Len(t, leads, 1)
	assert.Equal(t, "l2", leads[0].ID)
}

func TestListLeadsRejectsBadParams(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	for _, q := range []string{"stage=Pending", "minScore=abc", "sort=sideways"} {
		rec := f.do(t, http.MethodGet, "/leads?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestGetLead(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	rec := f.do(t, http.MethodGet, "/leads/l3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Finovia", decode[entity.Lead](t, rec).Company)

	rec = f.do(t, http.MethodGet, "/leads/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, usecase.CodeLeadNotFound, decode[ErrorResponse](t, rec).Error)
}

func TestQualifyEndpoint(t *testing.T) {
	f := newFixture(t, fixedScore(82), nil, nil)

	rec := f.do(t, http.MethodPost, "/leads/l1/qualify", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[usecase.QualifyOutput](t, rec)
	assert.Equal(t, 82, out.Lead.Score)
	assert.Equal(t, entity.StageQualified, out.Lead.Stage)

	rec = f.do(t, http.MethodGet, "/stats", nil)
	assert.JSONEq(t, `{"total":4,"qualified":1,"contacted":0,"byStage":{"New":3,"Contacted":0,"Qualified":1,"Meeting":0,"Won":0,"Lost":0}}`, rec.Body.String())
}

func TestQualifyDegradedStillSucceeds(t *testing.T) {
	failing := scorerFunc(func(context.Context, entity.Lead) (entity.Qualification, error) {
		return entity.Qualification{}, errors.New("connection refused")
	})
	f := newFixture(t, failing, nil, nil)

	rec := f.do(t, http.MethodPost, "/leads/l2/qualify", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[usecase.QualifyOutput](t, rec)
	assert.True(t, out.Qualification.Degraded)
	assert.Equal(t, 0, out.Lead.Score)
}

func TestBusyLeadAnswersConflict(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	blocking := scorerFunc(func(context.Context, entity.Lead) (entity.Qualification, error) {
		close(started)
		<-release
		return entity.Qualification{Score: 75}, nil
	})
	f := newFixture(t, blocking, nil, nil)

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- f.do(t, http.MethodPost, "/leads/l1/qualify", nil) }()
	<-started

	rec := f.do(t, http.MethodPost, "/leads/l1/qualify", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "LEAD_BUSY", decode[ErrorResponse](t, rec).Error)

	close(release)
	assert.Equal(t, http.StatusOK, (<-done).Code)
	assert.False(t, f.dispatcher.Session.Busy("l1"))
}

func TestComposeEditAndLogDraft(t *testing.T) {
	drafter := drafterFunc(func(context.Context, entity.Lead) (entity.EmailDraft, error) {
		return entity.EmailDraft{Subject: "Hi", Body: "Body", CTA: "Call?"}, nil
	})
	f := newFixture(t, nil, drafter, nil)

	rec := f.do(t, http.MethodPost, "/leads/l4/compose", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/leads/l4/draft", entity.EmailDraft{Subject: "Hi Hannah", Body: "Body", CTA: "Call?"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/leads/l4/draft", nil)
	assert.Equal(t, "Hi Hannah", decode[entity.EmailDraft](t, rec).Subject)

	rec = f.do(t, http.MethodPost, "/leads/l4/email", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lead := decode[entity.Lead](t, rec)
	assert.Equal(t, entity.StageContacted, lead.Stage)
	assert.Equal(t, "Hi Hannah\n\nBody\n\nCall?", lead.Interactions[0].Content)

	rec = f.do(t, http.MethodGet, "/leads/l4/draft", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogEmailWithoutDraft(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	rec := f.do(t, http.MethodPost, "/leads/l1/email", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, usecase.CodeNoDraft, decode[ErrorResponse](t, rec).Error)
}

func TestLogEmailUnknownLeadIsNoop(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	rec := f.do(t, http.MethodPost, "/leads/zz/email", entity.EmailDraft{Subject: "s"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodPost, "/leads/zz/email", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.dispatcher.Session.Error())
}

func TestAdvanceEndpoint(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	rec := f.do(t, http.MethodPost, "/leads/l1/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.StageContacted, decode[entity.Lead](t, rec).Stage)

	rec = f.do(t, http.MethodPost, "/leads/zz/advance", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSlotsFailureSurfacesError(t *testing.T) {
	failing := slotsFunc(func(context.Context, string) ([]entity.Slot, error) {
		return nil, errors.New("random failure occurred")
	})
	f := newFixture(t, nil, nil, failing)

	rec := f.do(t, http.MethodPost, "/leads/l1/slots", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, usecase.CodeSlotsUnavailable, decode[ErrorResponse](t, rec).Error)

	rec = f.do(t, http.MethodGet, "/session", nil)
	state := decode[usecase.SessionState](t, rec)
	assert.Equal(t, "random failure occurred", state.Error)

	rec = f.do(t, http.MethodDelete, "/session/error", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, f.dispatcher.Session.Error())
}

func TestSlotsStoredForLead(t *testing.T) {
	ok := slotsFunc(func(context.Context, string) ([]entity.Slot, error) {
		return []entity.Slot{{StartISO: "a", EndISO: "b"}}, nil
	})
	f := newFixture(t, nil, nil, ok)

	rec := f.do(t, http.MethodGet, "/leads/l1/slots", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/leads/l1/slots", nil).Code)

	rec = f.do(t, http.MethodGet, "/leads/l1/slots", nil)
	assert.Equal(t, []entity.Slot{{StartISO: "a", EndISO: "b"}}, decode[[]entity.Slot](t, rec))
}

func TestSendWithoutMailer(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	rec := f.do(t, http.MethodPost, "/leads/l1/send", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, usecase.CodeMailNotConfigured, decode[ErrorResponse](t, rec).Error)
}

func TestSessionFiltersAndView(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	rec := f.do(t, http.MethodPut, "/session/filters", FiltersRequest{Stage: "New", MinScore: 55, Sort: "asc"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/session/view", nil)
	leads := decode[[]entity.Lead](t, rec)
	require.Len(t, leads, 2)
	assert.Equal(t, "l1", leads[0].ID)
	assert.Equal(t, "l3", leads[1].ID)

	rec = f.do(t, http.MethodPut, "/session/filters", FiltersRequest{Stage: "Bogus"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionSearchIsDebounced(t *testing.T) {
	f := newFixture(t, nil, nil, nil)

	rec := f.do(t, http.MethodPut, "/session/search", SearchRequest{Search: "  FINOVIA "})
	require.Equal(t, http.StatusAccepted, rec.Code)

	assert.Eventually(t, func() bool {
		return f.dispatcher.Session.Params().Search == "finovia"
	}, time.Second, 5*time.Millisecond)

	rec = f.do(t, http.MethodGet, "/session/view", nil)
	leads := decode[[]entity.Lead](t, rec)
	require.Len(t, leads, 1)
	assert.Equal(t, "l3", leads[0].ID)
}
