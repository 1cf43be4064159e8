package earthengine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExpression() Expression {
	g := NewGraph()
	n := g.LoadCollection("COPERNICUS/S2_HARMONIZED").Median()
	return g.Expression(n)
}

// newTestClient builds a client whose API base and token endpoint both point at
// the given handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-test",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	auth := NewAuthenticator(writeServiceAccountKey(t, srv.URL+"/token"))
	return NewClient("test-project", auth, WithBaseURL(srv.URL+"/v1"))
}

func TestRenderThumbnail(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody createThumbnailReq
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(thumbnail{Name: "projects/test-project/thumbnails/abc123"})
	})

	url, err := client.RenderThumbnail(context.Background(), RenderRequest{
		Expression: testExpression(),
		Dimensions: 512,
		Format:     "PNG",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/projects/test-project/thumbnails", gotPath)
	assert.Equal(t, "Bearer tok-test", gotAuth)
	assert.Equal(t, "PNG", gotBody.FileFormat)
	assert.Equal(t, 512, gotBody.Grid.Dimensions.Width)
	assert.Equal(t, 512, gotBody.Grid.Dimensions.Height)
	assert.NotEmpty(t, gotBody.Expression.Values)
	assert.True(t, strings.HasSuffix(url, "/projects/test-project/thumbnails/abc123:getPixels"), url)
}

func TestRenderThumbnailPlatformError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    401,
				"message": "Request had invalid authentication credentials.",
				"status":  "UNAUTHENTICATED",
			},
		})
	})

	_, err := client.RenderThumbnail(context.Background(), RenderRequest{
		Expression: testExpression(),
		Dimensions: 512,
		Format:     "PNG",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
	assert.Equal(t, 401, apiErr.Code)
	assert.Equal(t, "UNAUTHENTICATED", apiErr.Status)
	assert.Contains(t, apiErr.Message, "invalid authentication")
}

func TestRenderThumbnailNonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	})

	_, err := client.RenderThumbnail(context.Background(), RenderRequest{
		Expression: testExpression(),
		Dimensions: 512,
		Format:     "PNG",
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
}

func TestRenderThumbnailMissingName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})

	_, err := client.RenderThumbnail(context.Background(), RenderRequest{
		Expression: testExpression(),
		Dimensions: 512,
		Format:     "PNG",
	})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "missing name")
}

func TestInitializeFailsFastOnBadKey(t *testing.T) {
	auth := NewAuthenticator("/does/not/exist.json")
	client := NewClient("test-project", auth)

	err := client.Initialize(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialize session")
}
