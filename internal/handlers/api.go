// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers maps HTTP requests onto the aesthetic pipelines and the
// saved-aesthetic store. The boundary is thin: decode JSON, delegate,
// translate the error taxonomy to status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vaas/internal/engine"
	"vaas/internal/store"
)

// API bundles the HTTP handlers with their dependencies.
type API struct {
	engine *engine.Engine
	store  *store.Store
}

// NewAPI creates the handler group.
func NewAPI(eng *engine.Engine, st *store.Store) *API {
	return &API{engine: eng, store: st}
}

// --- Request/response shapes ---

type moodRequest struct {
	Texts  []string `json:"texts"`
	Images []string `json:"images"`
	URLs   []string `json:"urls"`
	Name   string   `json:"name"`
}

type moodResponse struct {
	AestheticEmbedding string `json:"aesthetic_embedding"`
	SavedAs            string `json:"saved_as,omitempty"`
}

type transformRequest struct {
	HTML      string `json:"html"`
	Aesthetic string `json:"aesthetic"`
}

type transformURLRequest struct {
	URL           string `json:"url"`
	Aesthetic     string `json:"aesthetic"`
	AestheticName string `json:"aesthetic_name"`
}

type htmlResponse struct {
	HTML string `json:"html"`
}

type listResponse struct {
	Data []store.Aesthetic `json:"data"`
}

// Mood handles POST /api/mood: generate an aesthetic from texts, images
// and urls, optionally persisting it under a name.
func (a *API) Mood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if msg := validateMood(req); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := a.engine.Mood(r.Context(), engine.MoodRequest{
		Texts:  req.Texts,
		Images: req.Images,
		URLs:   req.URLs,
		Name:   req.Name,
	})
	if err != nil {
		writePipelineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, moodResponse{
		AestheticEmbedding: res.Aesthetic,
		SavedAs:            res.SavedAs,
	})
}

// Transform handles POST /api/transform: restyle HTML supplied directly.
func (a *API) Transform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out, err := a.engine.Transform(r.Context(), req.HTML, req.Aesthetic)
	if err != nil {
		writePipelineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, htmlResponse{HTML: out})
}

// TransformURL handles POST /api/transform-url: fetch a page and restyle
// it against an inline or saved aesthetic.
func (a *API) TransformURL(w http.ResponseWriter, r *http.Request) {
	var req transformURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out, err := a.engine.TransformURL(r.Context(), req.URL, req.Aesthetic, req.AestheticName)
	if err != nil {
		writePipelineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, htmlResponse{HTML: out})
}

// ListAesthetics handles GET /api/aesthetics.
func (a *API) ListAesthetics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse{Data: a.store.List()})
}

// GetAesthetic handles GET /api/aesthetic/{name}.
func (a *API) GetAesthetic(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	rec, ok := a.store.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// --- Helpers ---

// writePipelineError maps the pipeline error taxonomy onto status codes:
// validation 400, unknown saved aesthetic 404, everything else 500.
func writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *engine.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Msg)
		return
	}

	var nferr *engine.NotFoundError
	if errors.As(err, &nferr) {
		writeError(w, http.StatusNotFound, nferr.Error())
		return
	}

	slog.Error("pipeline failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes the {error: message} body every failure path shares.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
