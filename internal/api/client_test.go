package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/gocd-tui/internal/config"
	"github.com/altinukshini/gocd-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.Config{Server: srv.URL, Pipeline: "build", Token: "s3cr3t"})
	require.NoError(t, err)
	return client
}

func TestGetTriggerOptions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/go/api/pipelines/build/trigger_options", r.URL.Path)
		assert.Equal(t, "bearer s3cr3t", r.Header.Get("Authorization"))
		assert.Equal(t, acceptV1, r.Header.Get("Accept"))

		w.Header().Set("Content-Type", acceptV1)
		_, _ = io.WriteString(w, `{
		  "variables": [{"name": "ENV", "value": "qa", "secure": false}],
		  "materials": [
		    {"type": "Git", "name": "material1", "fingerprint": "fp1", "revision": {"user": "bob"}},
		    {"type": "Git", "name": "material2", "fingerprint": "fp2", "revision": {}}
		  ]
		}`)
	})

	info, err := client.GetTriggerOptions(context.Background(), "build")
	require.NoError(t, err)
	require.Len(t, info.Materials, 2)
	assert.Equal(t, "bob", *info.Materials[0].Revision.User)
	assert.True(t, info.Materials[1].Revision.IsEmpty())
	assert.Equal(t, "qa", info.Variables[0].Value)
}

func TestGetTriggerOptionsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", acceptV1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"message": "You do not have permissions"}`)
	})

	_, err := client.GetTriggerOptions(context.Background(), "build")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, StatusCode(err))
	assert.Contains(t, err.Error(), "get trigger options for build")
}

func TestSearchMaterial(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/go/api/internal/material_search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "fp1", q.Get("fingerprint"))
		assert.Equal(t, "build", q.Get("pipeline_name"))
		assert.Equal(t, "feature boo", q.Get("search_text"))

		w.Header().Set("Content-Type", acceptV1)
		_, _ = io.WriteString(w, `[
		  {"revision": "2a4b782a3a7d2eb13868da75149e716b15f52e5d", "user": "GaneshSPatil <ganeshpl@thoughtworks.com>", "date": "2018-02-12T11:02:48Z", "comment": "implemented feature boo"},
		  {"revision": "7f7653464e14682c7c9ce6a8bf85989a9a52eb35", "user": "GaneshSPatil <ganeshpl@thoughtworks.com>", "date": "2018-02-12T11:01:53Z", "comment": "implemented feature boo"}
		]`)
	})

	results, err := client.SearchMaterial(context.Background(), "build", "fp1", "feature boo")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "2a4b782a3a7d2eb13868da75149e716b15f52e5d", results[0].Revision)
}

func TestSearchMaterialNotFoundIsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	results, err := client.SearchMaterial(context.Background(), "build", "gone", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSchedule(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/go/api/pipelines/build/schedule", r.URL.Path)
		assert.Equal(t, "true", r.Header.Get("X-GoCD-Confirm"))

		var req model.ScheduleRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []model.ScheduleMaterial{{Fingerprint: "fp1", Revision: "abc"}}, req.Materials)
		assert.True(t, req.UpdateMaterialsBeforeScheduling)

		w.Header().Set("Content-Type", acceptV1)
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"message": "Request to schedule pipeline build accepted"}`)
	})

	msg, err := client.Schedule(context.Background(), "build", model.ScheduleRequest{
		Materials:                       []model.ScheduleMaterial{{Fingerprint: "fp1", Revision: "abc"}},
		UpdateMaterialsBeforeScheduling: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Request to schedule pipeline build accepted", msg)
}

func TestMaterialSearchQueryString(t *testing.T) {
	q := MaterialSearch{Fingerprint: "fp", Pipeline: "up42", Text: "fix bug"}
	assert.Equal(t, "?fingerprint=fp&pipeline_name=up42&search_text=fix+bug", q.QueryString())
}
