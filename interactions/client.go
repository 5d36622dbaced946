// client.go
// ---------
// Client implements the interaction query against a DrugBank-shaped
// source: POST <base>/ddi?region=<us|eu|ca> with the identifier list as a
// JSON body, response parsed into a Report. One network call per
// invocation; failures come back as classified errors from the bridge or
// from local parsing, never as panics.
package interactions

import (
	"context"
	"encoding/json"
	"net/url"

	ddibridge "github.com/clinisafe/ddi-bridge"
)

// DefaultSource is the source name the DrugBank adapter is expected to be
// registered under.
const DefaultSource = "drugbank"

const ddiEndpoint = "/ddi"

type Client struct {
	sdk    *ddibridge.DDIBridge
	source string
}

// NewClient returns a client that queries the DefaultSource on the bridge.
func NewClient(sdk *ddibridge.DDIBridge) *Client {
	return &Client{sdk: sdk, source: DefaultSource}
}

// NewClientForSource targets a differently named registration of a
// DrugBank-compatible adapter (e.g. a sandbox instance).
func NewClientForSource(sdk *ddibridge.DDIBridge, source string) *Client {
	return &Client{sdk: sdk, source: source}
}

type checkRequest struct {
	DrugbankID []string `json:"drugbank_id"`
}

type wireIngredient struct {
	Name string `json:"name"`
}

type wireInteraction struct {
	ProductIngredient         wireIngredient `json:"product_ingredient"`
	AffectedProductIngredient wireIngredient `json:"affected_product_ingredient"`
	Severity                  string         `json:"severity"`
	Description               string         `json:"description"`
}

type checkResponse struct {
	TotalResults int                `json:"total_results"`
	Interactions *[]wireInteraction `json:"interactions"`
}

// CheckInteractions submits one interaction query for the given drug
// identifiers against the region's dataset and returns the parsed report.
//
// Input validation failures (empty identifier list, unknown region) are
// returned as configuration errors before any network call. Transport and
// protocol failures come back classified per the bridge taxonomy, so
// callers can errors.Is against ddibridge.ErrUnauthorized,
// ddibridge.ErrRateLimited, and the rest.
func (c *Client) CheckInteractions(ctx context.Context, drugIDs []string, region Region) (*Report, error) {
	if len(drugIDs) == 0 {
		return nil, ddibridge.NewConfigError("at least one drug identifier is required")
	}
	region, err := ParseRegion(string(region))
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(checkRequest{DrugbankID: drugIDs})
	if err != nil {
		return nil, ddibridge.NewConfigError("encode request body: %v", err)
	}

	query := url.Values{}
	query.Set("region", string(region))

	req := &ddibridge.NormalizedRequest{
		Method:   "POST",
		Endpoint: ddiEndpoint + "?" + query.Encode(),
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body: body,
	}

	resp, err := c.sdk.Request(ctx, c.source, req)
	if err != nil {
		return nil, err
	}

	var payload checkResponse
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, ddibridge.NewMalformedResponseError("decode interaction response: %v", err)
	}
	if payload.Interactions == nil {
		// A missing interactions field is not the same thing as zero
		// interactions; refuse to fabricate an empty result.
		return nil, ddibridge.NewMalformedResponseError("interaction response missing interactions field")
	}

	report := &Report{
		TotalResults: payload.TotalResults,
		Interactions: make([]InteractionRecord, 0, len(*payload.Interactions)),
	}
	for _, w := range *payload.Interactions {
		report.Interactions = append(report.Interactions, InteractionRecord{
			SubjectDrug:  w.ProductIngredient.Name,
			AffectedDrug: w.AffectedProductIngredient.Name,
			Severity:     w.Severity,
			Description:  w.Description,
		})
	}
	return report, nil
}
