package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bolao/metrics"
	"bolao/models"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type stubConfigService struct {
	cfg *models.AppConfig
}

func (s *stubConfigService) GetConfig(ctx context.Context) (*models.AppConfig, error) {
	return s.cfg, nil
}

func (s *stubConfigService) SaveConfig(ctx context.Context, cfg *models.AppConfig) error {
	s.cfg = cfg
	return nil
}

func TestAssistant_Reply(t *testing.T) {
	ctx := context.Background()
	configService := &stubConfigService{cfg: &models.AppConfig{PaymentKey: "010.235.721-84"}}

	t.Run("returns the model's answer", func(t *testing.T) {
		var gotPath string
		var gotBody generateContentRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			resp := generateContentResponse{}
			resp.Candidates = append(resp.Candidates, struct {
				Content content `json:"content"`
			}{Content: content{Parts: []part{{Text: "Olá! A chave PIX é 010.235.721-84."}}}})
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		a := NewAssistant(AssistantConfig{
			BaseURL: server.URL,
			APIKey:  "test-key",
			Model:   "gemini-2.0-flash",
		}, configService, nil)

		reply := a.Reply(ctx, "João", "Qual a chave PIX?")

		assert.Equal(t, "Olá! A chave PIX é 010.235.721-84.", reply)
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
		// The persona carries the configured payment key so the model can answer
		assert.NotNil(t, gotBody.SystemInstruction)
		assert.Contains(t, gotBody.SystemInstruction.Parts[0].Text, "010.235.721-84")
		assert.Contains(t, gotBody.SystemInstruction.Parts[0].Text, "João")
	})

	t.Run("upstream error falls back to the apology", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		m := metrics.Registry("bolao")
		a := NewAssistant(AssistantConfig{
			BaseURL: server.URL,
			APIKey:  "test-key",
			Model:   "gemini-2.0-flash",
		}, configService, m)

		errorsBefore := promtestutil.ToFloat64(m.Errors.WithLabelValues("assistant"))

		reply := a.Reply(ctx, "João", "Oi")

		assert.Equal(t, AssistantFallbackReply, reply)
		assert.Equal(t, errorsBefore+1, promtestutil.ToFloat64(m.Errors.WithLabelValues("assistant")))
	})

	t.Run("empty candidate list falls back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(generateContentResponse{})
		}))
		defer server.Close()

		a := NewAssistant(AssistantConfig{
			BaseURL: server.URL,
			APIKey:  "test-key",
			Model:   "gemini-2.0-flash",
		}, configService, nil)

		reply := a.Reply(ctx, "João", "Oi")

		assert.Equal(t, AssistantFallbackReply, reply)
	})

	t.Run("missing API key never reaches upstream", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		a := NewAssistant(AssistantConfig{
			BaseURL: server.URL,
			Model:   "gemini-2.0-flash",
		}, configService, nil)

		reply := a.Reply(ctx, "João", "Oi")

		assert.Equal(t, AssistantFallbackReply, reply)
		assert.False(t, called)
	})
}

func TestAlertService_DismissAlert(t *testing.T) {
	ctx := context.Background()

	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockAlertRepo := new(MockAlertRepository)

	mockUoW.SetRepositories(nil, nil, nil, nil, mockAlertRepo, nil, nil)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockAlertRepo.On("Delete", ctx, "alert-1").Return(nil)

	service := NewAlertService(mockFactory)
	err := service.DismissAlert(ctx, "alert-1")

	assert.NoError(t, err)
	mockAlertRepo.AssertExpectations(t)
}
