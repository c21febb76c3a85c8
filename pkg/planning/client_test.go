package planning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticToken(token string) CredentialProvider {
	return TokenFunc(func(ctx context.Context) (string, error) {
		return token, nil
	})
}

func TestClientListRecords(t *testing.T) {
	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Record{rec(1, "2024-01-10", 10)})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, staticToken("tok123"))
	records, err := client.ListRecords(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/projects/p1/planning", gotPath)
	assert.Equal(t, "Bearer tok123", gotAuth)
	require.Len(t, records, 1)
	assert.Equal(t, RecordID(1), records[0].ID)
}

func TestClientUpsertRecord(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody Record
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]int64{"id": 42})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, staticToken("tok"))
	id, err := client.UpsertRecord(context.Background(), rec(-7, "2024-01-10", 10))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/v1/planning", gotPath)
	assert.Equal(t, RecordID(-7), gotBody.ID)
	assert.Equal(t, RecordID(42), id)
}

func TestClientAssociationPaths(t *testing.T) {
	var paths []string
	var methods []string
	var lastBody map[string]int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		methods = append(methods, r.Method)
		if r.Method == http.MethodPost {
			json.NewDecoder(r.Body).Decode(&lastBody)
		}
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode([]Association{{ID: 9, ActivityID: 30}})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, staticToken("tok"))
	ctx := context.Background()

	assocs, err := client.ListAssociations(ctx, 42)
	require.NoError(t, err)
	require.Len(t, assocs, 1)
	assert.Equal(t, int64(30), assocs[0].ActivityID)

	require.NoError(t, client.CreateAssociation(ctx, 42, 30))
	assert.Equal(t, int64(30), lastBody["activityId"])

	require.NoError(t, client.DeleteAssociation(ctx, 9))
	require.NoError(t, client.DeleteRecord(ctx, 42))

	assert.Equal(t, []string{
		"/api/v1/planning/42/activities",
		"/api/v1/planning/42/activities",
		"/api/v1/planning/activities/9",
		"/api/v1/planning/42",
	}, paths)
	assert.Equal(t, []string{"GET", "POST", "DELETE", "DELETE"}, methods)
}

func TestClientSurfacesErrorBodies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "record not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, staticToken("tok"))
	_, err := client.ListAssociations(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "record not found")
}

func TestClientCredentialFailureAbortsRequest(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, TokenFunc(func(ctx context.Context) (string, error) {
		return "", assert.AnError
	}))
	_, err := client.ListRecords(context.Background(), "p1")
	require.Error(t, err)
	assert.False(t, called, "no request without credentials")
}

func TestDraftSaveThroughClient(t *testing.T) {
	// End to end: a draft with one imported record saved over HTTP.
	var createdAssoc bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/planning", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int64{"id": 55})
	})
	mux.HandleFunc("/api/v1/planning/55/activities", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			createdAssoc = true
			w.WriteHeader(http.StatusCreated)
			return
		}
		json.NewEncoder(w).Encode([]Association{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, nil, staticToken("tok"))
	d := newTestDraft()
	imported := d.Import([]Record{rec(3, "2024-01-03", 30)})
	require.Len(t, imported, 1)

	require.NoError(t, d.SaveAll(context.Background(), client))
	assert.True(t, createdAssoc)
	assert.Equal(t, RecordID(55), d.Bucket(Mercredi)[0].ID)
	assert.False(t, d.Dirty())
}
