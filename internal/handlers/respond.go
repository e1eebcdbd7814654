// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the club API.
// Handlers are grouped by resource and receive their feature services
// through the handler struct. They decode the request, call one feature
// operation and translate its result into a status code.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"nunchakuclub/internal/middleware"
	"nunchakuclub/internal/result"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 1 << 20

// errorBody is the shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// idBody is returned by create endpoints.
type idBody struct {
	ID uuid.UUID `json:"id"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(k result.Kind) int {
	switch k {
	case result.KindNotFound:
		return http.StatusNotFound
	case result.KindConflict:
		return http.StatusConflict
	case result.KindValidation:
		return http.StatusBadRequest
	case result.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the failure of res. It reports false when res succeeded so
// callers can write the success body themselves.
func fail[T any](w http.ResponseWriter, res result.Result[T]) bool {
	f := res.Failure()
	if f == nil {
		return false
	}
	writeError(w, statusFor(f.Kind), f.Message)
	return true
}

// respond writes the result value with status on success, or the failure.
func respond[T any](w http.ResponseWriter, res result.Result[T], status int) {
	if fail(w, res) {
		return
	}
	writeJSON(w, status, res.Value())
}

// created answers a create operation with 201 and the new ID.
func created(w http.ResponseWriter, res result.Result[uuid.UUID]) {
	if fail(w, res) {
		return
	}
	writeJSON(w, http.StatusCreated, idBody{ID: res.Value()})
}

// noContent answers an operation without a payload.
func noContent(w http.ResponseWriter, res result.Result[result.Empty]) {
	if fail(w, res) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decode reads a JSON body into dst. It writes a 400 and returns false on
// malformed or oversized input.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID parses a UUID URL parameter, writing a 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user's ID, writing a 401 when the
// request carries no verified token.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims := middleware.ClaimsFromCtx(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	return claims.UserID, true
}
