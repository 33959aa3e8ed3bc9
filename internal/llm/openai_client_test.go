// ABOUTME: Tests for the OpenAI-compatible routing client
// ABOUTME: Uses an httptest server standing in for the chat completions endpoint
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const testKeyEnv = "NAVIGATOR_TEST_API_KEY"

func toolCallResponse(calls ...[2]string) string {
	var parts []string
	for i, c := range calls {
		args, _ := json.Marshal(c[1])
		parts = append(parts, fmt.Sprintf(
			`{"id":"call_%d","type":"function","function":{"name":%q,"arguments":%s}}`, i, c[0], args))
	}
	toolCalls := "["
	for i, p := range parts {
		if i > 0 {
			toolCalls += ","
		}
		toolCalls += p
	}
	toolCalls += "]"
	return `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",` +
		`"choices":[{"index":0,"message":{"role":"assistant","content":"","tool_calls":` + toolCalls +
		`},"finish_reason":"tool_calls"}]}`
}

func textResponse(text string) string {
	content, _ := json.Marshal(text)
	return `{"id":"chatcmpl-2","object":"chat.completion","created":1,"model":"gpt-4o-mini",` +
		`"choices":[{"index":0,"message":{"role":"assistant","content":` + string(content) +
		`},"finish_reason":"stop"}]}`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, retries int) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv(testKeyEnv, "sk-test")

	return NewOpenAIClient(&ClientConfig{
		APIKeyEnv:  testKeyEnv,
		BaseURL:    server.URL + "/v1",
		ChatModel:  "gpt-4o-mini",
		Timeout:    2 * time.Second,
		MaxRetries: retries,
		RetryDelay: time.Millisecond,
	}, nil)
}

func TestComplete_ToolCalls(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s, want /v1/chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, toolCallResponse([2]string{"MedicalRecordsAgent", `{"query_type":"lab_result"}`}))
	}, 0)

	completion, err := client.Complete(context.Background(), CompletionRequest{
		SystemPrompt: "route only",
		UserMessage:  "I need my lab results",
		Tools: []openai.Tool{{
			Type:     openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{Name: "MedicalRecordsAgent"},
		}},
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if len(completion.ToolCalls) != 1 {
		t.Fatalf("len(ToolCalls) = %d, want 1", len(completion.ToolCalls))
	}
	call := completion.ToolCalls[0]
	if call.Name != "MedicalRecordsAgent" {
		t.Errorf("Name = %q", call.Name)
	}
	if call.Arguments != `{"query_type":"lab_result"}` {
		t.Errorf("Arguments = %q", call.Arguments)
	}
	if completion.FinishReason != "tool_calls" {
		t.Errorf("FinishReason = %q", completion.FinishReason)
	}

	// Request shape: system + current user message only, low temperature
	if len(got.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != openai.ChatMessageRoleSystem || got.Messages[0].Content != "route only" {
		t.Errorf("system message = %+v", got.Messages[0])
	}
	if got.Messages[1].Role != openai.ChatMessageRoleUser || got.Messages[1].Content != "I need my lab results" {
		t.Errorf("user message = %+v", got.Messages[1])
	}
	if got.Temperature != 0.1 {
		t.Errorf("Temperature = %v, want 0.1", got.Temperature)
	}
	if len(got.Tools) != 1 {
		t.Errorf("len(Tools) = %d, want 1", len(got.Tools))
	}
	if got.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", got.Model)
	}
}

func TestComplete_MultipleToolCallsPreserved(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, toolCallResponse(
			[2]string{"BillingAndInsuranceAgent", `{"action":"check_bill"}`},
			[2]string{"AppointmentScheduler", `{"intent":"book"}`},
		))
	}, 0)

	completion, err := client.Complete(context.Background(), CompletionRequest{UserMessage: "bill and book"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if len(completion.ToolCalls) != 2 {
		t.Fatalf("len(ToolCalls) = %d, want 2", len(completion.ToolCalls))
	}
	if completion.ToolCalls[0].Name != "BillingAndInsuranceAgent" {
		t.Errorf("first call = %q, order must be preserved", completion.ToolCalls[0].Name)
	}
}

func TestComplete_TextOnly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, textResponse("Could you clarify?"))
	}, 0)

	completion, err := client.Complete(context.Background(), CompletionRequest{UserMessage: "hmm"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if len(completion.ToolCalls) != 0 {
		t.Errorf("len(ToolCalls) = %d, want 0", len(completion.ToolCalls))
	}
	if completion.Text != "Could you clarify?" {
		t.Errorf("Text = %q", completion.Text)
	}
}

func TestComplete_MissingKeyIsConfigurationError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, 3)
	t.Setenv(testKeyEnv, "")

	_, err := client.Complete(context.Background(), CompletionRequest{UserMessage: "hello"})
	if !IsConfigurationError(err) {
		t.Fatalf("Complete() error = %v, want ConfigurationError", err)
	}
	if IsTransportError(err) {
		t.Error("missing key should not be a TransportError")
	}
	if calls.Load() != 0 {
		t.Errorf("server called %d times, want 0", calls.Load())
	}
}

func TestComplete_ServerErrorIsTransportError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}, 2)

	_, err := client.Complete(context.Background(), CompletionRequest{UserMessage: "hello"})
	if !IsTransportError(err) {
		t.Fatalf("Complete() error = %v, want TransportError", err)
	}
	if calls.Load() != 3 {
		t.Errorf("server called %d times, want 3 (1 + 2 retries)", calls.Load())
	}

	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("TransportError should wrap the API error, got %v", err)
	}
}

func TestComplete_UnauthorizedNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}, 3)

	_, err := client.Complete(context.Background(), CompletionRequest{UserMessage: "hello"})
	if !IsTransportError(err) {
		t.Fatalf("Complete() error = %v, want TransportError", err)
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestComplete_ZeroTemperatureIsSent(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","object":"chat.completion","created":1,"model":"m",`+
			`"choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`)
	}, 0)

	if _, err := client.Complete(context.Background(), CompletionRequest{UserMessage: "hello", Temperature: 0}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	temp, ok := body["temperature"].(float64)
	if !ok {
		t.Fatalf("temperature missing from request body: %v", body)
	}
	if temp <= 0 || temp > 0.001 {
		t.Errorf("temperature = %v, want a near-zero positive value", temp)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	}, 0)

	_, err := client.Complete(context.Background(), CompletionRequest{UserMessage: "hello"})
	if !IsTransportError(err) {
		t.Fatalf("Complete() error = %v, want TransportError", err)
	}
}

func TestComplete_TimeoutIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the request context is only cancelled on disconnect once the body is consumed
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)
	t.Setenv(testKeyEnv, "sk-test")

	client := NewOpenAIClient(&ClientConfig{
		APIKeyEnv: testKeyEnv,
		BaseURL:   server.URL + "/v1",
		Timeout:   50 * time.Millisecond,
	}, nil)

	start := time.Now()
	_, err := client.Complete(context.Background(), CompletionRequest{UserMessage: "hello"})
	if !IsTransportError(err) {
		t.Fatalf("Complete() error = %v, want TransportError", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v, expected prompt expiry", elapsed)
	}
}

func TestNewOpenAIClient_Defaults(t *testing.T) {
	client := NewOpenAIClient(&ClientConfig{}, nil)
	if client.Model() != DefaultChatModel {
		t.Errorf("Model() = %q, want %q", client.Model(), DefaultChatModel)
	}
	if client.apiKeyEnv != DefaultAPIKeyEnv {
		t.Errorf("apiKeyEnv = %q, want %q", client.apiKeyEnv, DefaultAPIKeyEnv)
	}
	if client.timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", client.timeout)
	}

	if NewOpenAIClient(nil, nil) == nil {
		t.Error("NewOpenAIClient(nil) returned nil")
	}
}

func TestErrorMessages(t *testing.T) {
	cfgErr := &ConfigurationError{Reason: "OPENAI_API_KEY is not set"}
	if cfgErr.Error() != "configuration error: OPENAI_API_KEY is not set" {
		t.Errorf("ConfigurationError.Error() = %q", cfgErr.Error())
	}

	inner := errors.New("connection refused")
	trErr := &TransportError{Op: "chat completion", Err: inner}
	if !errors.Is(trErr, inner) {
		t.Error("TransportError should unwrap to its cause")
	}
	if trErr.Error() != "transport error during chat completion: connection refused" {
		t.Errorf("TransportError.Error() = %q", trErr.Error())
	}
}
