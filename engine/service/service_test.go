package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unarmedpuppy/command-grid/engine/core"
)

func TestJobsClient_Dispatch(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v0/jobs" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Fatalf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(core.Job{ID: "j1", Agent: core.ProfileGilfoyle, Status: core.JobPending})
	}))
	defer srv.Close()

	c := NewJobsClient(srv.URL)
	c.APIKey = "secret"
	job, err := c.Dispatch(context.Background(), "status check", core.ProfileGilfoyle)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if job.ID != "j1" || job.Status != core.JobPending {
		t.Fatalf("job = %+v", job)
	}
	if gotBody["prompt"] != "status check" || gotBody["agent"] != "gilfoyle" {
		t.Fatalf("request body = %v", gotBody)
	}
}

func TestJobsClient_ListValidatesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"j1","status":"running","agent":"dinesh"}]`))
	}))
	defer srv.Close()

	jobs, err := NewJobsClient(srv.URL).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Status != core.JobRunning {
		t.Fatalf("jobs = %+v", jobs)
	}
}

func TestJobsClient_ListRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"j1","status":"exploded","agent":"dinesh"}]`))
	}))
	defer srv.Close()

	if _, err := NewJobsClient(srv.URL).List(context.Background()); err == nil {
		t.Fatal("unknown status enum value should fail validation")
	}
}

func TestJobsClient_NonOKIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewJobsClient(srv.URL).List(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", apiErr.StatusCode)
	}
}

func TestTasksClient_ListWithStatusFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("status"); got != "IN_PROGRESS" {
			t.Fatalf("status query = %q", got)
		}
		w.Write([]byte(`[{"id":"t1","status":"IN_PROGRESS","type":"bug","building_type":"fortress"}]`))
	}))
	defer srv.Close()

	tasks, err := NewTasksClient(srv.URL).List(context.Background(), core.TaskInProgress)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].BuildingType != core.BuildingFortress {
		t.Fatalf("tasks = %+v", tasks)
	}
}

func TestTasksClient_MissingBuildingTypeIsFine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"t1","status":"OPEN","type":"docs"}]`))
	}))
	defer srv.Close()

	tasks, err := NewTasksClient(srv.URL).List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks[0].BuildingType != "" {
		t.Fatalf("building type should be empty, got %q", tasks[0].BuildingType)
	}
}

func TestLayoutClient_RoundTrip(t *testing.T) {
	var stored []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("read put body: %v", err)
			}
			stored = raw
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			w.Write(stored)
		}
	}))
	defer srv.Close()

	c := NewLayoutClient(srv.URL)
	blob := []byte(`{"version":1,"buildings":[]}`)
	if err := c.Put(context.Background(), blob); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// The blob is opaque to the client; the round trip must be
	// byte-preserving, with no re-encoding artifacts like a trailing
	// newline.
	if !bytes.Equal(got, blob) {
		t.Fatalf("round trip mismatch: %q", got)
	}
}
