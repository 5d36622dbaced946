// rxnav.go
// --------
// RxNavClient queries the NLM RxNav interaction list endpoint, an
// unauthenticated source keyed by RxNorm concept identifiers (rxcuis).
// Records are mapped into the same InteractionRecord shape as the
// DrugBank client so callers can treat sources interchangeably.
package interactions

import (
	"context"
	"encoding/json"
	"strings"

	ddibridge "github.com/clinisafe/ddi-bridge"
)

// RxNavSource is the source name the RxNav adapter is expected to be
// registered under.
const RxNavSource = "rxnav"

const rxnavListEndpoint = "/interaction/list.json"

type RxNavClient struct {
	sdk    *ddibridge.DDIBridge
	source string
}

func NewRxNavClient(sdk *ddibridge.DDIBridge) *RxNavClient {
	return &RxNavClient{sdk: sdk, source: RxNavSource}
}

type rxnavConceptItem struct {
	Name string `json:"name"`
}

type rxnavInteractionConcept struct {
	MinConceptItem rxnavConceptItem `json:"minConceptItem"`
}

type rxnavInteractionPair struct {
	InteractionConcept []rxnavInteractionConcept `json:"interactionConcept"`
	Severity           string                    `json:"severity"`
	Description        string                    `json:"description"`
}

type rxnavFullInteractionType struct {
	InteractionPair []rxnavInteractionPair `json:"interactionPair"`
}

type rxnavGroup struct {
	SourceName          string                     `json:"sourceName"`
	FullInteractionType []rxnavFullInteractionType `json:"fullInteractionType"`
}

type rxnavListResponse struct {
	FullInteractionTypeGroup []rxnavGroup `json:"fullInteractionTypeGroup"`
}

// CheckInteractions queries RxNav for interactions among the given rxcuis.
// RxNav omits fullInteractionTypeGroup entirely when no interactions are
// known, so an absent group decodes to an empty report rather than a
// malformed-response error.
func (c *RxNavClient) CheckInteractions(ctx context.Context, rxcuis []string) (*Report, error) {
	if len(rxcuis) == 0 {
		return nil, ddibridge.NewConfigError("at least one rxcui is required")
	}

	req := &ddibridge.NormalizedRequest{
		Method:   "GET",
		Endpoint: rxnavListEndpoint + "?rxcuis=" + strings.Join(rxcuis, "+"),
		Headers:  map[string]string{"Accept": "application/json"},
	}

	resp, err := c.sdk.Request(ctx, c.source, req)
	if err != nil {
		return nil, err
	}

	var payload rxnavListResponse
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, ddibridge.NewMalformedResponseError("decode rxnav response: %v", err)
	}

	report := &Report{}
	for _, group := range payload.FullInteractionTypeGroup {
		for _, fit := range group.FullInteractionType {
			for _, pair := range fit.InteractionPair {
				rec := InteractionRecord{
					Severity:    pair.Severity,
					Description: pair.Description,
				}
				if len(pair.InteractionConcept) > 0 {
					rec.SubjectDrug = pair.InteractionConcept[0].MinConceptItem.Name
				}
				if len(pair.InteractionConcept) > 1 {
					rec.AffectedDrug = pair.InteractionConcept[1].MinConceptItem.Name
				}
				report.Interactions = append(report.Interactions, rec)
			}
		}
	}
	report.TotalResults = len(report.Interactions)
	return report, nil
}
