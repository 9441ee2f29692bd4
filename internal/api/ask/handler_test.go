package ask

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/filescout/filescout-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	outcome *entity.AskOutcome
	err     error
	lastReq *entity.AskRequest
}

func (f *fakeUsecase) Ask(_ context.Context, req *entity.AskRequest) (*entity.AskOutcome, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func TestAskHandler_OK(t *testing.T) {
	uc := &fakeUsecase{outcome: &entity.AskOutcome{
		Mode:     entity.AskOutcomeRetrieveOnly,
		Sources:  []entity.Hit{{ChunkID: "c1", Score: 0.8}},
		TopScore: 0.8,
	}}
	h := NewHandler(uc)

	body := `{"query":"what is in the report","answer_mode":"retrieve","k":3}`
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Ask(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, uc.lastReq.K)

	var out entity.AskOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, entity.AskOutcomeRetrieveOnly, out.Mode)
	assert.Len(t, out.Sources, 1)
}

func TestAskHandler_BadJSON(t *testing.T) {
	h := NewHandler(&fakeUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Ask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskHandler_MapsUsecaseErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing field", entity.ErrMissingField, http.StatusBadRequest},
		{"invalid parameter", entity.ErrInvalidParameter, http.StatusBadRequest},
		{"rate limited upstream", entity.ErrRateLimited, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUsecase{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"query":"q"}`))
			rec := httptest.NewRecorder()

			h.Ask(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
