package httpapi

import (
	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/moneylog/internal/logging"
	"github.com/dmitrijs2005/moneylog/internal/server/vaults"
)

// NewRouter builds the vault tree routes the client adapter consumes.
func NewRouter(repo vaults.Repository, log logging.Logger) *mux.Router {
	h := NewHandler(repo, log)

	r := mux.NewRouter()
	v := r.PathPrefix("/vaults/{vault}").Subrouter()
	v.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	v.HandleFunc("/transactions/{id}", h.PutTransaction).Methods("PUT")
	v.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE")
	v.HandleFunc("/deleted", h.ListTombstones).Methods("GET")
	v.HandleFunc("/deleted/{id}", h.PutTombstone).Methods("PUT")
	return r
}
