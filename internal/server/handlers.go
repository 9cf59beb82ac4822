package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/datatap/datatap/filter"
	"github.com/datatap/datatap/schema"
)

// maxSelectorBytes bounds the request body; selector trees are small.
const maxSelectorBytes = 1 << 20

type queryResponse struct {
	Table string           `json:"table"`
	Count int              `json:"count"`
	Rows  []map[string]any `json:"rows"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.queryContext(r)
	defer cancel()

	tables, err := s.store.Tables(ctx)
	if err != nil {
		s.serverError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]
	ctx, cancel := s.queryContext(r)
	defer cancel()

	columns, err := s.store.Columns(ctx, table)
	if err != nil {
		s.serverError(r, w, err)
		return
	}
	if len(columns) == 0 {
		respondError(w, http.StatusNotFound, schema.UnknownTableError{Table: table}.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"table": table, "columns": columns})
}

// handleQuery compiles the selector in the request body, checks it against
// the table schema and dumps the matching rows. An empty body selects
// everything.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSelectorBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "read request body")
		return
	}

	var compiled *filter.CompiledFilter
	if len(bytes.TrimSpace(body)) == 0 {
		compiled, err = s.compiler.Compile(filter.Selector{})
	} else {
		compiled, err = s.compiler.CompileJSON(body)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := s.queryContext(r)
	defer cancel()

	// Rejection discards the compiled fragment and parameters entirely;
	// nothing reaches the database.
	if _, err := s.guard.Approve(ctx, table, compiled); err != nil {
		var unknownTable schema.UnknownTableError
		var unknownColumns schema.UnknownColumnsError
		switch {
		case errors.As(err, &unknownTable):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &unknownColumns):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.serverError(r, w, err)
		}
		return
	}

	rows, err := s.store.SelectWhere(ctx, table, compiled)
	if err != nil {
		s.serverError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, queryResponse{Table: table, Count: len(rows), Rows: rows})
}

func (s *Server) queryContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.queryTimeout)
}

func (s *Server) serverError(r *http.Request, w http.ResponseWriter, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	respondError(w, http.StatusInternalServerError, "internal error")
}
