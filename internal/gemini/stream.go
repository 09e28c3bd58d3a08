package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/google/uuid"

	"github.com/samkirk/gca-bridge/internal/apierr"
	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/streamutil"
)

// installationIDHeader is the stable per-installation identity Code
// Assist expects on every call; undocumented, name inferred from the
// gemini-cli wire traffic the retrieved antigravity-proxy targets.
const installationIDHeader = "X-Goog-Installation-Id"

// Stream issues an authenticated streamGenerateContent SSE call and
// returns the normalized chunk stream (spec §4.4). chatID seeds both the
// session id sent upstream and the chunk consumers' correlation id.
func (c *Client) Stream(ctx context.Context, req *ir.CanonicalRequest, chatID string) (<-chan ir.Chunk, error) {
	proj, err := c.projectID(ctx)
	if err != nil {
		return nil, err
	}
	req.ProjectID = proj

	body, err := sonic.Marshal(toWireRequest(req, uuid.NewString(), chatID))
	if err != nil {
		return nil, err
	}

	resp, err := c.doStreamRequest(ctx, req.Model, body, false)
	if err != nil {
		return nil, err
	}

	out := make(chan ir.Chunk)
	go c.pump(ctx, resp, req.Model, out)
	return out, nil
}

// doStreamRequest issues the POST, retrying bounded-exponentially on 429
// and 5xx (spec §4.4), and performs the single 401-retry-with-fresh-token
// recovery around the whole retry loop.
func (c *Client) doStreamRequest(ctx context.Context, model string, body []byte, retriedAuth bool) (*http.Response, error) {
	policy := retrypolicy.Builder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		}).
		WithMaxRetries(2).
		WithBackoff(time.Second, 8*time.Second).
		ReturnLastFailure().
		Build()
	executor := failsafe.NewExecutor[*http.Response](policy)

	resp, err := executor.GetWithExecution(func(exec failsafe.Execution[*http.Response]) (*http.Response, error) {
		resp, err := c.postStream(exec.Context(), model, body)
		// Drain and close the body into a buffered replacement here: the
		// policy may call this function again before the caller ever sees
		// this response, and nothing else would close the original.
		if err == nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500) {
			errBody := readAll(resp.Body)
			resp.Body.Close()
			return &http.Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: io.NopCloser(bytes.NewReader(errBody))}, nil
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		if retriedAuth {
			return nil, apierr.Upstream{StatusCode_: http.StatusUnauthorized, Body: "unauthorized after token refresh"}
		}
		c.auth.InvalidateToken()
		return c.doStreamRequest(ctx, model, body, true)
	}

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusBadRequest {
		errBody := readAll(resp.Body)
		resp.Body.Close()
		return nil, classifyError(resp, errBody, model)
	}
	if resp.StatusCode == http.StatusBadRequest {
		errBody := readAll(resp.Body)
		resp.Body.Close()
		return nil, classifyError(resp, errBody, model)
	}
	return resp, nil
}

func (c *Client) postStream(ctx context.Context, model string, body []byte) (*http.Response, error) {
	token, err := c.auth.AccessToken()
	if err != nil {
		return nil, fmt.Errorf("gemini: fetching access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+":streamGenerateContent?alt=sse", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent(model))
	req.Header.Set(installationIDHeader, c.installationID)

	return c.http.Do(req)
}

// pump reads SSE records from resp.Body and emits normalized chunks,
// implementing spec §4.4's ordering rules for the thinking/text/tool_call
// lifecycle. It owns resp.Body and closes it unconditionally on return.
func (c *Client) pump(ctx context.Context, resp *http.Response, model string, out chan<- ir.Chunk) {
	defer close(out)

	scanner := streamutil.NewLineScanner(ctx, resp.Body, streamutil.DefaultStreamReaderConfig())
	defer scanner.Close()

	state := &pumpState{model: model, family: ir.ModelFamily(model)}
	var dataLines []string

	flush := func() bool {
		if len(dataLines) == 0 {
			return true
		}
		payload := strings.Join(dataLines, "")
		dataLines = dataLines[:0]
		if payload == "[DONE]" {
			return true
		}
		return c.handleRecord(state, []byte(payload), out)
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if !flush() {
				return
			}
		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// ignore comments / event: lines
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		state.emitFinal(out, "", apierr.StreamAborted{Cause: err})
		return
	}
	state.closeThinking(out)
	state.emitFinal(out, "", nil)
}

// handleRecord decodes one SSE JSON record and emits chunks for it,
// returning false if the caller should stop pumping (terminal/error).
func (c *Client) handleRecord(state *pumpState, payload []byte, out chan<- ir.Chunk) bool {
	var rec wireResponse
	body := &rec.Response
	outerErr := json.Unmarshal(payload, &rec)
	if outerErr != nil || len(rec.Response.Candidates) == 0 {
		// Some responses omit the outer "response" envelope.
		var flat wireResponseBody
		if err := json.Unmarshal(payload, &flat); err != nil {
			if outerErr != nil {
				state.emitFinal(out, "", fmt.Errorf("gemini: decoding SSE record: %w", outerErr))
				return false
			}
		} else if len(flat.Candidates) > 0 {
			body = &flat
		}
	}

	if body.UsageMetadata != nil {
		state.usage = &ir.Usage{
			PromptTokens:     body.UsageMetadata.PromptTokenCount,
			CompletionTokens: body.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      body.UsageMetadata.TotalTokenCount,
		}
	}
	if len(body.Candidates) == 0 {
		return true
	}
	cand := body.Candidates[0]

	for _, part := range cand.Content.Parts {
		state.emitPart(c.sig, part, out)
	}

	if cand.FinishReason != "" {
		state.closeThinking(out)
		state.emitFinal(out, cand.FinishReason, nil)
		return false
	}
	return true
}
