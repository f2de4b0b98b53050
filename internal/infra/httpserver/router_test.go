package httpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	appanalysis "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/application/analysis"
	domain "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/analysis"
	"github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/vision"
	memorydb "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/infra/db/memory"
)

type stubVision struct {
	response string
	err      error
}

func (s *stubVision) Analyze(ctx context.Context, image []byte, imageName string) (string, error) {
	return s.response, s.err
}

func newTestServer(v vision.Client) (*httptest.Server, *appanalysis.Service) {
	svc := &appanalysis.Service{
		Repo:   memorydb.NewAnalysisRepository(),
		Vision: v,
		Stats:  appanalysis.NewStatsAggregator(),
		Clock:  appanalysis.SystemClock{},
	}
	return httptest.NewServer(NewRouter(svc, nil)), svc
}

func analyzeBody(t *testing.T, image, name string) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"image_base64": base64.StdEncoding.EncodeToString([]byte(image)),
		"image_name":   name,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestAnalyzeEndpointReturnsRecord(t *testing.T) {
	srv, _ := newTestServer(&stubVision{response: `{
		"detected_items": [
			{"category": "hazard", "name": "Oil Spill", "description": "spill", "confidence": "high", "priority": "high", "action": "clean"}
		],
		"overall_safety_score": "safe",
		"summary": "one hazard"
	}`})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", analyzeBody(t, "img-bytes", "dock.jpg"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec domain.AnalysisRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	require.NotEmpty(t, rec.ID)
	require.Equal(t, "dock.jpg", rec.ImageName)
	require.Equal(t, domain.ScoreDanger, rec.OverallSafetyScore)
	require.Len(t, rec.DetectedItems, 1)
}

func TestAnalyzeEndpointRejectsMissingImage(t *testing.T) {
	srv, _ := newTestServer(&stubVision{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json",
		bytes.NewBufferString(`{"image_base64": "", "image_name": "x.jpg"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeEndpointRejectsInvalidBase64(t *testing.T) {
	srv, _ := newTestServer(&stubVision{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json",
		bytes.NewBufferString(`{"image_base64": "!!!not-base64!!!", "image_name": "x.jpg"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeEndpointMapsModelUnavailable(t *testing.T) {
	srv, _ := newTestServer(&stubVision{err: vision.ErrUnavailable})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", analyzeBody(t, "img", "x.jpg"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAnalyzeEndpointMapsUnparsableResponse(t *testing.T) {
	srv, _ := newTestServer(&stubVision{response: "I cannot analyze this image"})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/analyze", "application/json", analyzeBody(t, "img", "x.jpg"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHistoryEndpointOrderAndLimit(t *testing.T) {
	srv, svc := newTestServer(&stubVision{response: `{"detected_items": []}`})
	defer srv.Close()

	ctx := context.Background()
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		_, err := svc.Analyze(ctx, []byte("img"), name)
		require.NoError(t, err)
	}

	resp, err := http.Get(srv.URL + "/api/history?limit=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []domain.AnalysisRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 2)
	require.Equal(t, "c.jpg", list[0].ImageName)
	require.Equal(t, "b.jpg", list[1].ImageName)
}

func TestHistoryEndpointEmptyIsJSONList(t *testing.T) {
	srv, _ := newTestServer(&stubVision{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/history")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []domain.AnalysisRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Empty(t, list)
}

func TestGetEndpoint(t *testing.T) {
	srv, svc := newTestServer(&stubVision{response: `{"detected_items": []}`})
	defer srv.Close()

	rec, err := svc.Analyze(context.Background(), []byte("img"), "x.jpg")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/history/" + string(rec.ID))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got domain.AnalysisRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, rec.ID, got.ID)
}

func TestGetEndpointNotFound(t *testing.T) {
	srv, _ := newTestServer(&stubVision{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/history/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	srv, svc := newTestServer(&stubVision{response: `{"detected_items": []}`})
	defer srv.Close()

	_, err := svc.Analyze(context.Background(), []byte("img"), "x.jpg")
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var snap domain.StatsSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	require.Equal(t, 1, snap.TotalAnalyses)
	require.Equal(t, 1, snap.SafeCount)
}

type gatedVision struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gatedVision) Analyze(ctx context.Context, image []byte, imageName string) (string, error) {
	close(g.entered)
	<-g.release
	return `{"detected_items": []}`, nil
}

func TestMetricsCountInFlightRequests(t *testing.T) {
	gv := &gatedVision{entered: make(chan struct{}), release: make(chan struct{})}
	srv, _ := newTestServer(gv)
	defer srv.Close()

	body := analyzeBody(t, "img", "x.jpg")
	done := make(chan struct{})
	go func() {
		defer close(done)
		resp, err := http.Post(srv.URL+"/api/analyze", "application/json", body)
		if err == nil {
			resp.Body.Close()
		}
	}()

	<-gv.entered
	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var metrics map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&metrics))
	require.GreaterOrEqual(t, metrics["requests_in_progress"], float64(1))

	close(gv.release)
	<-done
}

func TestRootEndpoint(t *testing.T) {
	srv, _ := newTestServer(&stubVision{})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "operational", body["status"])
}
