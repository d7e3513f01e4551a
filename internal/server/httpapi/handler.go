package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type challengeResponse struct {
	Data *models.Challenge `json:"data"`
}

type noteResponse struct {
	Note *models.Note `json:"note"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn(r.Context(), "response write failed", "error", err)
	}
}

// writeError maps service errors to status codes. Unknown errors are
// logged and reported without detail.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrCaptchaRequired),
		errors.Is(err, common.ErrCaptchaMismatch),
		errors.Is(err, common.ErrCaptchaExpired),
		errors.Is(err, common.ErrEmptyNote),
		errors.Is(err, common.ErrInvalidReference):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrAlreadyExists):
		status = http.StatusConflict
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), err.Error())
		msg = common.ErrorInternal.Error()
	}
	s.writeJSON(w, r, status, messageResponse{Message: msg})
}

func (s *HTTPServer) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ch, err := s.notes.Challenge(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, challengeResponse{Data: ch})
}

func (s *HTTPServer) ShareNote(w http.ResponseWriter, r *http.Request) {
	var note models.Note
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxNoteBytes)).Decode(&note); err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, messageResponse{Message: "invalid note: " + err.Error()})
		return
	}

	shared, err := s.notes.Share(r.Context(), &note, r.Header.Get(common.CaptchaHeaderName))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, noteResponse{Note: shared})
}

func (s *HTTPServer) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < common.MinNoteID || id > common.MaxNoteID {
		s.writeError(w, r, common.ErrInvalidReference)
		return
	}

	n, err := s.notes.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, noteResponse{Note: n})
}
