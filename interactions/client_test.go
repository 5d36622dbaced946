package interactions

import (
	"context"
	"errors"
	"strings"
	"testing"

	ddibridge "github.com/clinisafe/ddi-bridge"
	"github.com/clinisafe/ddi-bridge/mock"
)

func newTestBridge(src *mock.MockSource) *ddibridge.DDIBridge {
	sdk := ddibridge.NewDDIBridge()
	sdk.RegisterSource(DefaultSource, src, &ddibridge.SourceConfig{UseSourceLimits: true})
	return sdk
}

const twoInteractionsBody = `{
  "total_results": 2,
  "interactions": [
    {
      "product_ingredient": {"name": "Warfarin"},
      "affected_product_ingredient": {"name": "Aspirin"},
      "severity": "major",
      "description": "Increased risk of bleeding."
    },
    {
      "product_ingredient": {"name": "Simvastatin"},
      "affected_product_ingredient": {"name": "Clarithromycin"},
      "severity": "moderate",
      "description": "Increased statin exposure."
    }
  ]
}`

func TestCheckInteractionsSuccessMapping(t *testing.T) {
	src := &mock.MockSource{Responses: []*ddibridge.NormalizedResponse{
		{StatusCode: 200, Headers: map[string]string{}, Data: []byte(twoInteractionsBody)},
	}}
	client := NewClient(newTestBridge(src))

	report, err := client.CheckInteractions(context.Background(), []string{"DB00682", "DB00945"}, RegionUS)
	if err != nil {
		t.Fatalf("CheckInteractions returned error: %v", err)
	}
	if report.TotalResults != 2 {
		t.Errorf("expected TotalResults 2, got %d", report.TotalResults)
	}
	if len(report.Interactions) != 2 {
		t.Fatalf("expected 2 interactions, got %d", len(report.Interactions))
	}
	first := report.Interactions[0]
	if first.SubjectDrug != "Warfarin" || first.AffectedDrug != "Aspirin" {
		t.Errorf("unexpected first record drugs: %+v", first)
	}
	if first.Severity != "major" || first.Description != "Increased risk of bleeding." {
		t.Errorf("unexpected first record labels: %+v", first)
	}
	if report.Interactions[1].SubjectDrug != "Simvastatin" {
		t.Errorf("unexpected second record: %+v", report.Interactions[1])
	}
}

func TestCheckInteractionsRequestShape(t *testing.T) {
	src := &mock.MockSource{Responses: []*ddibridge.NormalizedResponse{
		{StatusCode: 200, Headers: map[string]string{}, Data: []byte(`{"total_results":0,"interactions":[]}`)},
	}}
	client := NewClient(newTestBridge(src))

	if _, err := client.CheckInteractions(context.Background(), []string{"DB00682", "DB00945"}, RegionEU); err != nil {
		t.Fatalf("CheckInteractions returned error: %v", err)
	}

	reqs := src.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(reqs))
	}
	req := reqs[0]
	if req.Method != "POST" {
		t.Errorf("expected POST, got %s", req.Method)
	}
	if !strings.Contains(req.Endpoint, "region=eu") {
		t.Errorf("expected region=eu query parameter, got endpoint %q", req.Endpoint)
	}
	if !strings.HasPrefix(req.Endpoint, "/ddi?") {
		t.Errorf("expected /ddi endpoint, got %q", req.Endpoint)
	}
	if !strings.Contains(string(req.Body), `"drugbank_id":["DB00682","DB00945"]`) {
		t.Errorf("unexpected request body: %s", req.Body)
	}
	if req.Headers["Content-Type"] != "application/json" || req.Headers["Accept"] != "application/json" {
		t.Errorf("unexpected headers: %+v", req.Headers)
	}
}

func TestCheckInteractionsDefaultsRegionToUS(t *testing.T) {
	src := &mock.MockSource{Responses: []*ddibridge.NormalizedResponse{
		{StatusCode: 200, Headers: map[string]string{}, Data: []byte(`{"total_results":0,"interactions":[]}`)},
	}}
	client := NewClient(newTestBridge(src))

	if _, err := client.CheckInteractions(context.Background(), []string{"DB00682"}, ""); err != nil {
		t.Fatalf("CheckInteractions returned error: %v", err)
	}
	if ep := src.Requests()[0].Endpoint; !strings.Contains(ep, "region=us") {
		t.Errorf("expected region to default to us, got endpoint %q", ep)
	}
}

func TestCheckInteractionsRejectsUnknownRegion(t *testing.T) {
	src := &mock.MockSource{}
	client := NewClient(newTestBridge(src))

	_, err := client.CheckInteractions(context.Background(), []string{"DB00682"}, Region("mars"))
	if !errors.Is(err, ddibridge.ErrConfig) {
		t.Fatalf("expected ErrConfig for unknown region, got %v", err)
	}
	if src.RequestCount() != 0 {
		t.Fatal("invalid region must fail before any network call")
	}
}

func TestCheckInteractionsEmptyInput(t *testing.T) {
	src := &mock.MockSource{}
	client := NewClient(newTestBridge(src))

	_, err := client.CheckInteractions(context.Background(), nil, RegionUS)
	if !errors.Is(err, ddibridge.ErrConfig) {
		t.Fatalf("expected ErrConfig for empty input, got %v", err)
	}
	if src.RequestCount() != 0 {
		t.Fatal("empty input must fail before any network call")
	}
}

func TestCheckInteractionsUnauthorized(t *testing.T) {
	src := &mock.MockSource{Responses: []*ddibridge.NormalizedResponse{
		{StatusCode: 401, Headers: map[string]string{}, Data: []byte(`{"error":"invalid key"}`)},
	}}
	client := NewClient(newTestBridge(src))

	_, err := client.CheckInteractions(context.Background(), []string{"DB00682"}, RegionUS)
	if !errors.Is(err, ddibridge.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCheckInteractionsRateLimited(t *testing.T) {
	src := &mock.MockSource{ShouldReturn429Always: true}
	client := NewClient(newTestBridge(src))

	_, err := client.CheckInteractions(context.Background(), []string{"DB00682"}, RegionUS)
	if !errors.Is(err, ddibridge.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestCheckInteractionsMissingInteractionsField(t *testing.T) {
	src := &mock.MockSource{Responses: []*ddibridge.NormalizedResponse{
		{StatusCode: 200, Headers: map[string]string{}, Data: []byte(`{"total_results":0}`)},
	}}
	client := NewClient(newTestBridge(src))

	_, err := client.CheckInteractions(context.Background(), []string{"DB00682"}, RegionUS)
	if !errors.Is(err, ddibridge.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse for missing interactions field, got %v", err)
	}
}

func TestCheckInteractionsEmptyInteractionsIsSuccess(t *testing.T) {
	src := &mock.MockSource{Responses: []*ddibridge.NormalizedResponse{
		{StatusCode: 200, Headers: map[string]string{}, Data: []byte(`{"total_results":0,"interactions":[]}`)},
	}}
	client := NewClient(newTestBridge(src))

	report, err := client.CheckInteractions(context.Background(), []string{"DB00682"}, RegionUS)
	if err != nil {
		t.Fatalf("empty interactions list must not be an error: %v", err)
	}
	if report.TotalResults != 0 || len(report.Interactions) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestCheckInteractionsUndecodableBody(t *testing.T) {
	src := &mock.MockSource{Responses: []*ddibridge.NormalizedResponse{
		{StatusCode: 200, Headers: map[string]string{}, Data: []byte(`<html>gateway error</html>`)},
	}}
	client := NewClient(newTestBridge(src))

	_, err := client.CheckInteractions(context.Background(), []string{"DB00682"}, RegionUS)
	if !errors.Is(err, ddibridge.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse for undecodable body, got %v", err)
	}
}

func TestCheckInteractionsTransportFailure(t *testing.T) {
	src := &mock.MockSource{Err: errors.New("dial tcp: lookup api.drugbank.com: no such host")}
	client := NewClient(newTestBridge(src))

	_, err := client.CheckInteractions(context.Background(), []string{"DB00682"}, RegionUS)
	if !errors.Is(err, ddibridge.ErrTransportFailure) {
		t.Fatalf("expected ErrTransportFailure, got %v", err)
	}
}
