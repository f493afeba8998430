package http

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/leshachaplin/crashlog/internal/apierror"
	"github.com/leshachaplin/crashlog/internal/domain"
	"github.com/leshachaplin/crashlog/internal/service"
)

// Report accepts newline delimited events and stores their reports
// asynchronously.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.error(err, w)
		return
	}
	buf := bytes.NewBuffer(data)
	go h.reporter.ProcessReports(buf, time.Now().UTC())
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) Compose(w http.ResponseWriter, r *http.Request) {
	var req domain.EventRequest
	if err := decodeJSON(r, &req); err != nil {
		h.error(err, w)
		return
	}

	rep, err := h.reporter.Compose(r.Context(), req, queryBool(r, "show_report_button"))
	if err != nil {
		h.error(err, w)
		return
	}
	h.ok(w, rep)
}

func (h *Handler) Custom(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.error(err, w)
		return
	}

	q := r.URL.Query()
	rep, err := h.reporter.ComposeCustom(r.Context(), service.CustomRequest{
		Type:             q.Get("type"),
		Message:          data,
		SourcePackage:    q.Get("source_package"),
		Title:            q.Get("title"),
		ShowReportButton: queryBool(r, "show_report_button"),
	})
	if err != nil {
		h.error(err, w)
		return
	}
	h.ok(w, rep)
}

func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			h.error(apierror.NewAPIError("invalid limit", http.StatusBadRequest), w)
			return
		}
	}

	reports, err := h.reporter.Reports(r.Context(), chi.URLParam(r, "package"), limit)
	if err != nil {
		h.error(err, w)
		return
	}
	h.ok(w, reports)
}

func (h *Handler) FilterCrash(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		h.error(err, w)
		return
	}
	h.text(w, h.reporter.FilterCrash(string(data)))
}

func (h *Handler) Footer(w http.ResponseWriter, r *http.Request) {
	var meta domain.AppMetadata
	if err := decodeJSON(r, &meta); err != nil {
		h.error(err, w)
		return
	}
	if meta.PackageName == "" {
		h.error(apierror.NewAPIError("package_name is required", http.StatusBadRequest), w)
		return
	}
	h.text(w, h.reporter.Footer(meta))
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
