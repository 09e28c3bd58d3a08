package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/compute/metadata"

	"github.com/samkirk/gca-bridge/internal/apierr"
)

const onboardPollInterval = 1 * time.Second
const onboardPollMax = 30

// projectID implements spec §4.4's lazy, cached, singleflight-deduped
// project discovery.
func (c *Client) projectID(ctx context.Context) (string, error) {
	if c.explicitProj != "" {
		return c.explicitProj, nil
	}
	if c.discoveredProj != "" {
		return c.discoveredProj, nil
	}
	if hint := c.auth.ProjectHint(); hint != "" {
		c.discoveredProj = hint
		return hint, nil
	}
	if env := envProjectID(); env != "" {
		c.discoveredProj = env
		return env, nil
	}
	if gce := gceProjectID(); gce != "" {
		c.discoveredProj = gce
		return gce, nil
	}

	v, err, _ := c.projectMu.Do("discover", func() (any, error) {
		return c.discoverProject(ctx)
	})
	if err != nil {
		return "", err
	}
	proj := v.(string)
	c.discoveredProj = proj
	return proj, nil
}

func envProjectID() string {
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	return os.Getenv("GOOGLE_CLOUD_PROJECT_ID")
}

// gceProjectID consults the GCE metadata server when running on Google
// Cloud infrastructure, short-circuiting the loadCodeAssist/onboardUser
// round-trip for that deployment.
func gceProjectID() string {
	if !metadata.OnGCE() {
		return ""
	}
	proj, err := metadata.ProjectID()
	if err != nil {
		return ""
	}
	return proj
}

// defaultTierID is the fallback onboarding tier when loadCodeAssist
// returns no tier marked default (spec §4.4 step 3).
const defaultTierID = "free-tier"

func (c *Client) discoverProject(ctx context.Context) (string, error) {
	proj, tierID, err := c.loadCodeAssist(ctx)
	if err != nil {
		return "", err
	}
	if proj != "" {
		return proj, nil
	}
	return c.onboardUser(ctx, tierID)
}

// loadCodeAssist returns the caller's existing project id, if any, and the
// tier id to onboard with if one isn't: the tier marked IsDefault among
// AllowedTiers, or defaultTierID if none is marked.
func (c *Client) loadCodeAssist(ctx context.Context) (project, tierID string, err error) {
	body, err := json.Marshal(loadCodeAssistRequest{
		Metadata: loadCodeAssistMetadata{
			IdeType:    "IDE_UNSPECIFIED",
			Platform:   "PLATFORM_UNSPECIFIED",
			PluginType: "GEMINI",
		},
	})
	if err != nil {
		return "", "", err
	}

	respBody, err := c.post(ctx, ":loadCodeAssist", body)
	if err != nil {
		return "", "", err
	}
	defer respBody.Close()

	var resp loadCodeAssistResponse
	if err := json.NewDecoder(respBody).Decode(&resp); err != nil {
		return "", "", fmt.Errorf("gemini: decoding loadCodeAssist response: %w", err)
	}
	return resp.CloudaicompanionProject, defaultTier(resp.AllowedTiers), nil
}

// defaultTier scans allowedTiers for the one marked default, falling back
// to defaultTierID when none is marked (spec §4.4 step 3).
func defaultTier(allowedTiers []tier) string {
	for _, t := range allowedTiers {
		if t.IsDefault {
			return t.ID
		}
	}
	return defaultTierID
}

func (c *Client) onboardUser(ctx context.Context, tierID string) (string, error) {
	if tierID == "" {
		tierID = defaultTierID
	}

	body, err := json.Marshal(onboardUserRequest{TierID: tierID})
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < onboardPollMax; attempt++ {
		respBody, err := c.post(ctx, ":onboardUser", body)
		if err != nil {
			return "", err
		}

		var resp onboardUserResponse
		decodeErr := json.NewDecoder(respBody).Decode(&resp)
		respBody.Close()
		if decodeErr != nil {
			return "", fmt.Errorf("gemini: decoding onboardUser response: %w", decodeErr)
		}
		if resp.Done {
			if resp.Response.CloudaicompanionProject.ID == "" {
				return "", apierr.Upstream{StatusCode_: 500, Body: "onboardUser completed without a project id"}
			}
			return resp.Response.CloudaicompanionProject.ID, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(onboardPollInterval):
		}
	}
	return "", apierr.Upstream{StatusCode_: 504, Body: "onboardUser polling timed out after 30s"}
}

// post issues an authenticated JSON POST against baseURL+path and returns
// the response body on 2xx; the caller must close it.
func (c *Client) post(ctx context.Context, path string, body []byte) (io.ReadCloser, error) {
	token, err := c.auth.AccessToken()
	if err != nil {
		return nil, fmt.Errorf("gemini: fetching access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: %s: %w", path, err)
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(resp.Body)
		return nil, apierr.Upstream{StatusCode_: resp.StatusCode, Body: string(errBody)}
	}
	return resp.Body, nil
}
