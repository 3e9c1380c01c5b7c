package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bolao/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	// AssistantFallbackReply is what members see whenever the upstream
	// model is unavailable or returns something unusable.
	AssistantFallbackReply = "Desculpe, tive um problema ao processar sua mensagem. Tente novamente em instantes."

	assistantTimeout = 15 * time.Second
)

// AssistantConfig holds upstream model client configuration.
type AssistantConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type assistant struct {
	baseURL       string
	apiKey        string
	model         string
	http          *http.Client
	configService ConfigService
	metrics       *metrics.Metrics
}

// NewAssistant creates the support chat assistant backed by the Gemini
// generateContent API.
func NewAssistant(cfg AssistantConfig, configService ConfigService, m *metrics.Metrics) Assistant {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://generativelanguage.googleapis.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = assistantTimeout
	}
	return &assistant{
		baseURL:       base,
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		http:          &http.Client{Timeout: timeout},
		configService: configService,
		metrics:       m,
	}
}

// generateContent request/response shapes, trimmed to the fields used.
type generateContentRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (a *assistant) Reply(ctx context.Context, userName, message string) string {
	start := time.Now()
	reply, err := a.generate(ctx, userName, message)
	status := "success"
	if err != nil {
		status = "error"
		log.WithError(err).WithField("user", userName).Warn("Assistant request failed")
		reply = AssistantFallbackReply
	}
	if a.metrics != nil {
		a.metrics.AssistantRequests.WithLabelValues(status).Inc()
		a.metrics.AssistantLatency.WithLabelValues(status).Observe(time.Since(start).Seconds())
		if err != nil {
			a.metrics.Errors.WithLabelValues("assistant").Inc()
		}
	}
	return reply
}

func (a *assistant) generate(ctx context.Context, userName, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("empty message")
	}
	if a.apiKey == "" {
		return "", fmt.Errorf("assistant API key not configured")
	}

	paymentKey := ""
	if cfg, err := a.configService.GetConfig(ctx); err == nil && cfg != nil {
		paymentKey = cfg.PaymentKey
	}

	reqBody := generateContentRequest{
		SystemInstruction: &content{
			Parts: []part{{Text: a.persona(userName, paymentKey)}},
		},
		Contents: []content{
			{Role: "user", Parts: []part{{Text: message}}},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", a.baseURL, a.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("response contained no candidates")
	}

	text := strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("response contained empty text")
	}
	return text, nil
}

func (a *assistant) persona(userName, paymentKey string) string {
	var b strings.Builder
	b.WriteString("Você é o assistente virtual do Bolão do Galo Cego, um clube de bolões entre amigos. ")
	b.WriteString("Responda em português do Brasil, de forma curta, simpática e direta. ")
	b.WriteString("Regras do clube: cada bolão tem duas opções e valor fixo de aposta; ")
	b.WriteString("o prêmio é 90% do total arrecadado, dividido igualmente entre os vencedores; ")
	b.WriteString("depósitos são confirmados pelo administrador após o envio do comprovante; ")
	b.WriteString("saques usam o saldo de prêmios e são processados pelo administrador. ")
	if paymentKey != "" {
		b.WriteString(fmt.Sprintf("A chave PIX para depósitos é %s. ", paymentKey))
	}
	if userName != "" {
		b.WriteString(fmt.Sprintf("O membro que está falando com você se chama %s. ", userName))
	}
	b.WriteString("Se não souber a resposta, oriente o membro a procurar o administrador do clube.")
	return b.String()
}
