// Package httpapi exposes the vault tree over HTTP. Snapshot reads return
// flat JSON maps; child writes take the JSON-encoded value as the body. The
// server never decrypts anything, it only shuttles opaque tokens.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/moneylog/internal/logging"
	"github.com/dmitrijs2005/moneylog/internal/server/vaults"
)

type Handler struct {
	repo vaults.Repository
	log  logging.Logger
}

func NewHandler(repo vaults.Repository, log logging.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	vaultID := mux.Vars(r)["vault"]

	records, err := h.repo.Records(r.Context(), vaultID)
	if err != nil {
		h.log.Error(r.Context(), "failed to list records", "vault", vaultID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) PutTransaction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vaultID, id := vars["vault"], vars["id"]

	var token string
	if err := json.NewDecoder(r.Body).Decode(&token); err != nil || token == "" {
		writeError(w, http.StatusBadRequest, "body must be a non-empty JSON string")
		return
	}

	if err := h.repo.PutRecord(r.Context(), vaultID, id, token); err != nil {
		h.log.Error(r.Context(), "failed to store record", "vault", vaultID, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vaultID, id := vars["vault"], vars["id"]

	existed, err := h.repo.RemoveRecord(r.Context(), vaultID, id)
	if err != nil {
		h.log.Error(r.Context(), "failed to delete record", "vault", vaultID, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, "no such record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTombstones(w http.ResponseWriter, r *http.Request) {
	vaultID := mux.Vars(r)["vault"]

	tombstones, err := h.repo.Tombstones(r.Context(), vaultID)
	if err != nil {
		h.log.Error(r.Context(), "failed to list tombstones", "vault", vaultID, "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	writeJSON(w, http.StatusOK, tombstones)
}

func (h *Handler) PutTombstone(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vaultID, id := vars["vault"], vars["id"]

	var deletedAt int64
	if err := json.NewDecoder(r.Body).Decode(&deletedAt); err != nil || deletedAt <= 0 {
		writeError(w, http.StatusBadRequest, "body must be a positive JSON integer")
		return
	}

	if err := h.repo.PutTombstone(r.Context(), vaultID, id, deletedAt); err != nil {
		h.log.Error(r.Context(), "failed to store tombstone", "vault", vaultID, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
