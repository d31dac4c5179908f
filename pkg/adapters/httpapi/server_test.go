package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algomation/marionette/pkg/adapters/httpapi"
	"github.com/algomation/marionette/pkg/adapters/memory"
	"github.com/algomation/marionette/pkg/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	frames := []domain.Frame{
		{
			{Op: domain.OpUpdate, Target: 1, Kind: domain.KindContainer, Payload: domain.Props{"opacity": 1.0}},
			{Op: domain.OpUpdate, Target: 2, Kind: domain.KindBox, Payload: domain.Props{"parent": domain.NodeID(1), "fill": "red"}},
		},
		{{Op: domain.OpUpdate, Target: 2, Payload: domain.Props{"fill": "blue"}}},
		{{Op: domain.OpDestroy, Target: 2}},
	}
	for _, f := range frames {
		require.NoError(t, store.Append(ctx, "demo", f))
	}

	srv := httptest.NewServer(httpapi.NewHandler(store))
	t.Cleanup(srv.Close)
	return srv
}

func TestServer_ListRuns(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Runs []string `json:"runs"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"demo"}, body.Runs)
}

func TestServer_GetFrame(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/runs/demo/frames/1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Index    int              `json:"index"`
		Commands []domain.Command `json:"commands"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Index)
	require.Len(t, body.Commands, 1)
	assert.Equal(t, domain.NodeID(2), body.Commands[0].Target)

	t.Run("OutOfRange", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/runs/demo/frames/9")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_Seek(t *testing.T) {
	srv := newTestServer(t)

	seek := func(t *testing.T, frame int) httpapi.SeekResponse {
		t.Helper()
		body, _ := json.Marshal(httpapi.SeekRequest{Frame: frame})
		resp, err := http.Post(srv.URL+"/runs/demo/seek", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out httpapi.SeekResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	t.Run("MidRun", func(t *testing.T) {
		out := seek(t, 2)
		assert.Equal(t, 2, out.Frame)
		require.Len(t, out.Nodes, 2)
		assert.Equal(t, "blue", out.Nodes[1].Props["fill"])
	})

	t.Run("AfterDestroy", func(t *testing.T) {
		out := seek(t, 3)
		require.Len(t, out.Nodes, 1, "only the root survives frame 2")
	})

	t.Run("OutOfRange", func(t *testing.T) {
		body, _ := json.Marshal(httpapi.SeekRequest{Frame: 99})
		resp, err := http.Post(srv.URL+"/runs/demo/seek", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_UnknownRun(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/runs/ghost/frames")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
