// =============================================================================
// billforge - Preview Server
// =============================================================================
//
// HTTP surface for the interactive flow: upload a workbook, edit fields with
// live recomputation, fetch a watermarked preview, download the final PDF,
// and maintain the saved issuer profile. JSON in and out everywhere except
// the binary endpoints.
//
// ROUTES:
//   POST /api/invoices               upload workbook -> new session
//   GET  /api/invoices/{id}          current record
//   POST /api/invoices/{id}/edits    apply one edit, returns the new record
//   DELETE /api/invoices/{id}        discard the session
//   GET  /api/invoices/{id}/preview  watermarked PDF (latest-wins rendering)
//   GET  /api/invoices/{id}/download final PDF, named from the bill number
//   GET  /api/profile                saved issuer profile
//   POST /api/profile                save issuer profile
//   GET  /api/template               starter workbook download
//
// =============================================================================

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/billforge/billforge/internal/config"
	"github.com/billforge/billforge/internal/extractor"
	"github.com/billforge/billforge/internal/invoice"
	"github.com/billforge/billforge/internal/profile"
	"github.com/billforge/billforge/internal/renderer"
	"github.com/billforge/billforge/internal/template"
	"github.com/billforge/billforge/pkg/utils"
)

// Server wires the HTTP handlers to the extraction, recalculation and
// rendering machinery.
type Server struct {
	cfg      *config.Config
	store    *profile.Store
	sessions *sessionStore
	log      *logrus.Logger
	router   *mux.Router
}

// New builds the server. A nil render function means the package renderer.
func New(cfg *config.Config, log *logrus.Logger, render renderer.RenderFunc) *Server {
	s := &Server{
		cfg:      cfg,
		store:    profile.NewStore(cfg.ProfilePath),
		sessions: newSessionStore(render),
		log:      log,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/invoices", s.handleUpload).Methods("POST")
	r.HandleFunc("/api/invoices/{id}", s.handleGetRecord).Methods("GET")
	r.HandleFunc("/api/invoices/{id}", s.handleDelete).Methods("DELETE")
	r.HandleFunc("/api/invoices/{id}/edits", s.handleEdit).Methods("POST")
	r.HandleFunc("/api/invoices/{id}/preview", s.handlePreview).Methods("GET")
	r.HandleFunc("/api/invoices/{id}/download", s.handleDownload).Methods("GET")
	r.HandleFunc("/api/profile", s.handleGetProfile).Methods("GET")
	r.HandleFunc("/api/profile", s.handleSaveProfile).Methods("POST")
	r.HandleFunc("/api/template", s.handleTemplate).Methods("GET")
	s.router = r

	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server on the configured address.
func (s *Server) ListenAndServe() error {
	s.log.Infof("preview server listening on %s", s.cfg.ServerAddr)
	return http.ListenAndServe(s.cfg.ServerAddr, s.router)
}

// uploadResponse pairs the session handle with the extracted record.
type uploadResponse struct {
	ID      string          `json:"id"`
	Version uint64          `json:"version"`
	Record  *invoice.Record `json:"record"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.clientError(w, fmt.Errorf("invalid upload: %w", err))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		s.clientError(w, fmt.Errorf("missing file field: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		s.serverError(w, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		s.clientError(w, fmt.Errorf("upload exceeds %d bytes", s.cfg.MaxUploadBytes))
		return
	}

	rec, err := extractor.Extract(data, extractor.Options{DateFormat: s.cfg.DateFormat})
	if err != nil {
		if errors.Is(err, extractor.ErrUnreadableFile) || errors.Is(err, extractor.ErrMalformedTemplate) {
			s.clientError(w, err)
		} else {
			s.serverError(w, err)
		}
		return
	}

	prof, err := s.store.Load()
	if err != nil {
		s.log.WithError(err).Warn("ignoring issuer profile")
		prof = nil
	}
	rec = profile.Merge(rec, prof)

	sess := s.sessions.create(rec)
	s.log.WithFields(logrus.Fields{"session": sess.id, "bill": rec.BillNumber}).Info("created invoice session")

	s.writeJSON(w, http.StatusCreated, uploadResponse{ID: sess.id, Version: 1, Record: rec})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(mux.Vars(r)["id"])
	if err != nil {
		s.notFound(w, err)
		return
	}
	rec, version := sess.snapshot()
	s.writeJSON(w, http.StatusOK, uploadResponse{ID: sess.id, Version: version, Record: rec})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.sessions.delete(mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(mux.Vars(r)["id"])
	if err != nil {
		s.notFound(w, err)
		return
	}

	var edit invoice.Edit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		s.clientError(w, fmt.Errorf("invalid edit payload: %w", err))
		return
	}

	rec, _ := sess.snapshot()
	next, err := invoice.Recompute(rec, edit)
	if err != nil {
		// The previous record stays in place untouched.
		s.clientError(w, err)
		return
	}
	version := sess.replace(next)

	s.writeJSON(w, http.StatusOK, uploadResponse{ID: sess.id, Version: version, Record: next})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(mux.Vars(r)["id"])
	if err != nil {
		s.notFound(w, err)
		return
	}

	rec, version := sess.snapshot()
	data, applied, err := sess.queue.Submit(version, rec)
	if err != nil {
		// Fall back to the previous preview if one exists.
		if prev, _ := sess.queue.Latest(); prev != nil {
			s.log.WithError(err).Warn("preview render failed, serving previous preview")
			s.writePDF(w, prev, "")
			return
		}
		s.serverError(w, err)
		return
	}
	if !applied {
		// A newer edit landed while rendering; serve the newest preview.
		if latest, _ := sess.queue.Latest(); latest != nil {
			data = latest
		}
	}
	s.writePDF(w, data, "")
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.get(mux.Vars(r)["id"])
	if err != nil {
		s.notFound(w, err)
		return
	}

	rec, _ := sess.snapshot()
	if violations := invoice.Validate(rec); len(violations) > 0 {
		s.clientError(w, fmt.Errorf("record failed validation: %s", violations[0].Error()))
		return
	}

	data, err := renderer.Render(rec, false)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writePDF(w, data, utils.PDFFileName(rec.BillNumber, nil))
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	prof, err := s.store.Load()
	if err != nil {
		s.serverError(w, err)
		return
	}
	if prof == nil {
		prof = profile.Profile{}
	}
	s.writeJSON(w, http.StatusOK, prof)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var prof profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&prof); err != nil {
		s.clientError(w, fmt.Errorf("invalid profile payload: %w", err))
		return
	}
	if err := s.store.Save(prof); err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, prof)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := template.Generate()
	if err != nil {
		s.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", template.DefaultFileName))
	w.Write(data)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

// writePDF sends document bytes; a non-empty filename turns the response
// into an attachment download.
func (s *Server) writePDF(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	if filename != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	}
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.Write(data)
}

func (s *Server) clientError(w http.ResponseWriter, err error) {
	s.log.WithError(err).Debug("rejected request")
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func (s *Server) notFound(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.WithError(err).Error("request failed")
	s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
