package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/unarmedpuppy/command-grid/engine/core"
)

// newRouter wires the three stubbed services onto one chi router.
func newRouter(store *Store, apiKey string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if apiKey != "" {
		r.Use(requireKey(apiKey))
	}

	r.Route("/v0", func(r chi.Router) {
		r.Post("/jobs", handleCreateJob(store))
		r.Get("/jobs", handleListJobs(store))
		r.Post("/tasks", handleCreateTask(store))
		r.Get("/tasks", handleListTasks(store))
		r.Get("/layout", handleGetLayout(store))
		r.Put("/layout", handlePutLayout(store))
	})
	return r
}

func requireKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Api-Key") != key {
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handleCreateJob(store *Store) http.HandlerFunc {
	type createReq struct {
		Prompt string       `json:"prompt"`
		Agent  core.Profile `json:"agent"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		if req.Agent == "" {
			writeError(w, http.StatusBadRequest, "agent required")
			return
		}
		job := core.Job{
			ID:     uuid.NewString(),
			Agent:  req.Agent,
			Status: core.JobPending,
		}
		if err := store.CreateJob(r.Context(), job, req.Prompt); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, job)
	}
}

func handleListJobs(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := store.ListJobs(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

func handleCreateTask(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t core.Task
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if t.Status == "" {
			t.Status = core.TaskOpen
		}
		if err := store.CreateTask(r.Context(), t); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

func handleListTasks(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks, err := store.ListTasks(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, tasks)
	}
}

func handleGetLayout(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blob, err := store.GetLayout(r.Context())
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "no layout stored")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(blob); err != nil {
			log.Printf("gridstub: layout write: %v", err)
		}
	}
}

func handlePutLayout(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blob, err := io.ReadAll(r.Body)
		if err != nil || len(blob) == 0 {
			writeError(w, http.StatusBadRequest, "empty body")
			return
		}
		if !json.Valid(blob) {
			writeError(w, http.StatusBadRequest, "layout must be JSON")
			return
		}
		if err := store.PutLayout(r.Context(), blob); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("gridstub: response encode: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
