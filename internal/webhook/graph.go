package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"estateleads_backend/platform/apperr"
	"estateleads_backend/platform/config"
)

// graphFields is the projection requested for every lead fetch.
const graphFields = "created_time,ad_id,form_id,page_id,field_data"

// LeadFetcher retrieves full lead details for a leadgen id.
type LeadFetcher interface {
	FetchLead(ctx context.Context, leadgenID string) (GraphLead, []byte, error)
}

// GraphClient fetches leads from the Meta Graph API.
type GraphClient struct {
	baseURL     string
	version     string
	accessToken string
	httpClient  *http.Client
}

// NewGraphClient creates a Graph API client from the Meta configuration.
func NewGraphClient(cfg config.MetaConfig) *GraphClient {
	return &GraphClient{
		baseURL:     cfg.GetMetaGraphBase(),
		version:     cfg.GetMetaGraphVersion(),
		accessToken: cfg.GetMetaAccessToken(),
		httpClient:  &http.Client{Timeout: cfg.GetMetaFetchTimeout()},
	}
}

// FetchLead retrieves one lead by leadgen id. Returns the decoded lead and
// the raw response body, which is persisted verbatim for audit.
func (g *GraphClient) FetchLead(ctx context.Context, leadgenID string) (GraphLead, []byte, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", g.baseURL, g.version, url.PathEscape(leadgenID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return GraphLead{}, nil, apperr.Upstream("building graph request failed", err)
	}

	query := req.URL.Query()
	query.Set("fields", graphFields)
	query.Set("access_token", g.accessToken)
	req.URL.RawQuery = query.Encode()

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return GraphLead{}, nil, apperr.Upstream("graph fetch failed for lead "+leadgenID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return GraphLead{}, nil, apperr.Upstream("reading graph response failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return GraphLead{}, nil, apperr.Upstream(
			fmt.Sprintf("graph returned status %d for lead %s", resp.StatusCode, leadgenID), nil)
	}

	var lead GraphLead
	if err := json.Unmarshal(body, &lead); err != nil {
		return GraphLead{}, nil, apperr.Upstream("decoding graph response failed", err)
	}
	return lead, body, nil
}

var _ LeadFetcher = (*GraphClient)(nil)
