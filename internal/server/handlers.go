package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/immodash/immodash/internal/utils"
	"github.com/immodash/immodash/pkg/ai"
	"github.com/immodash/immodash/pkg/app"
	"github.com/immodash/immodash/pkg/goals"
	"github.com/immodash/immodash/pkg/ideas"
	"github.com/immodash/immodash/pkg/prospection"
	"github.com/immodash/immodash/pkg/settings"
)

// Attachments travel base64-encoded, so leave room for a few MB of PDF.
const maxBodyBytes = 25 << 20

var errBadJSON = errors.New("request body is not valid JSON")

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errBadJSON
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.Log.Debugf("[server] write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		utils.Log.Warnf("Request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// classify maps an error to its HTTP status and the message shown to the
// agent.
func classify(err error) (int, string) {
	var decodeErr *ai.DecodeError
	var providerErr *ai.ProviderError

	switch {
	case errors.Is(err, app.ErrNotConfirmed):
		return http.StatusPreconditionRequired, "Confirmation requise : relancez avec confirm=true."
	case errors.Is(err, ai.ErrMissingCredential):
		return http.StatusServiceUnavailable, ai.UserMessage(err)
	case errors.As(err, &decodeErr), errors.As(err, &providerErr):
		return http.StatusBadGateway, ai.UserMessage(err)
	case errors.Is(err, ai.ErrEmptyInput):
		return http.StatusBadRequest, ai.UserMessage(err)
	case errors.Is(err, prospection.ErrNotFound), errors.Is(err, ideas.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, settings.ErrWrongPIN):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, errBadJSON),
		errors.Is(err, ai.ErrUnknownKind),
		errors.Is(err, prospection.ErrEmptyZone),
		errors.Is(err, prospection.ErrEmptyTarget),
		errors.Is(err, prospection.ErrInvalidScope),
		errors.Is(err, ideas.ErrEmptyContent),
		errors.Is(err, goals.ErrNegative),
		errors.Is(err, goals.ErrUnknownField),
		errors.Is(err, settings.ErrInvalidPIN),
		errors.Is(err, settings.ErrBadTheme),
		errors.Is(err, app.ErrInvalidEstimation):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, ai.UserMessage(err)
	}
}

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

type reportRequest struct {
	Text       string         `json:"text"`
	Attachment *ai.Attachment `json:"attachment,omitempty"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	kind, err := ai.ParseReportKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req reportRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	report, err := s.App.Generate(r.Context(), kind, req.Text, req.Attachment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleProxyGenerate(w http.ResponseWriter, r *http.Request) {
	if s.Proxy == nil {
		writeJSON(w, http.StatusServiceUnavailable, ai.ProxyResponse{Error: ai.UserMessage(ai.ErrMissingCredential)})
		return
	}
	var req ai.ProxyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ai.ProxyResponse{Error: err.Error()})
		return
	}

	text, err := s.Proxy.Forward(r.Context(), req)
	if err != nil {
		status, msg := classify(err)
		utils.Log.Warnf("Proxy request failed: %v", err)
		writeJSON(w, status, ai.ProxyResponse{Error: msg})
		return
	}
	writeJSON(w, http.StatusOK, ai.ProxyResponse{Text: text})
}

type prospectionView struct {
	Entries   []prospection.Entry            `json:"entries"`
	Groups    []prospection.MonthGroup       `json:"groups"`
	Counts    map[prospection.ActionType]int `json:"counts"`
	ColdZones []prospection.Entry            `json:"coldZones"`
}

func (s *Server) handleProspection(w http.ResponseWriter, r *http.Request) {
	entries := s.App.Snapshot().Prospection
	if q := r.URL.Query().Get("q"); q != "" {
		entries = prospection.Search(entries, q)
	}
	writeJSON(w, http.StatusOK, prospectionView{
		Entries:   entries,
		Groups:    prospection.Group(entries),
		Counts:    prospection.Counts(entries),
		ColdZones: prospection.ColdZones(entries, s.App.Now()),
	})
}

type intentRequest struct {
	// Text is sent through the model; Intent skips it.
	Text   string              `json:"text"`
	Intent *prospection.Intent `json:"intent,omitempty"`
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var res prospection.Result
	var err error
	if req.Intent != nil {
		res, err = s.App.ApplyIntent(r.Context(), *req.Intent)
	} else {
		res, err = s.App.Prospect(r.Context(), req.Text)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"intent":  res.Kind,
		"changed": res.Changed,
		"added":   res.Added,
		"removed": res.Removed,
		"message": res.Message,
	})
}

func (s *Server) handleStartMonth(w http.ResponseWriter, r *http.Request) {
	created, err := s.App.StartMonth(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"created": created,
		"label":   prospection.MonthLabel(s.App.Now()),
	})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, prospection.ErrNotFound)
		return
	}
	if err := s.App.DeleteItem(r.Context(), id, confirmed(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteMonth(w http.ResponseWriter, r *http.Request) {
	removed, err := s.App.DeleteMonth(r.Context(), r.PathValue("label"), confirmed(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.App.ResetCampaign(r.Context(), confirmed(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	archive, err := s.App.ArchiveAndReset(r.Context(), confirmed(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, archive)
}

func (s *Server) handleArchives(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.App.Snapshot().Archives)
}

func (s *Server) handleDeleteArchive(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, prospection.ErrNotFound)
		return
	}
	if err := s.App.DeleteArchive(r.Context(), index, confirmed(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIdeas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.App.Snapshot().Ideas)
}

func (s *Server) handleAddIdea(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	idea, err := s.App.AddIdea(r.Context(), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idea)
}

func (s *Server) handleDeleteIdea(w http.ResponseWriter, r *http.Request) {
	if err := s.App.DeleteIdea(r.Context(), r.URL.Query().Get("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	g, err := s.App.Goals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// goalsUpdate sets the counters present in the body. Increment entries are
// applied after the assignments.
type goalsUpdate struct {
	Mandats          *int                `json:"mandats,omitempty"`
	Courriers        *int                `json:"courriers,omitempty"`
	PorteAPorte      *int                `json:"porteAPorte,omitempty"`
	BoitageValidated *bool               `json:"boitageValidated,omitempty"`
	Increment        map[goals.Field]int `json:"increment,omitempty"`
}

// apply runs every edit of the body on g; the first invalid one aborts.
func (req goalsUpdate) apply(g goals.Goals) (goals.Goals, error) {
	sets := []struct {
		field goals.Field
		value *int
	}{
		{goals.FieldMandats, req.Mandats},
		{goals.FieldCourriers, req.Courriers},
		{goals.FieldPorteAPorte, req.PorteAPorte},
	}
	var err error
	for _, set := range sets {
		if set.value == nil {
			continue
		}
		if g, err = g.Set(set.field, *set.value); err != nil {
			return g, err
		}
	}
	for field, delta := range req.Increment {
		if g, err = g.Increment(field, delta); err != nil {
			return g, err
		}
	}
	if req.BoitageValidated != nil {
		g = g.WithBoitage(*req.BoitageValidated)
	}
	return g, nil
}

func (s *Server) handleUpdateGoals(w http.ResponseWriter, r *http.Request) {
	var req goalsUpdate
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	g, err := s.App.EditGoals(r.Context(), req.apply)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleEstimation(w http.ResponseWriter, r *http.Request) {
	raw, err := s.App.Estimation(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

func (s *Server) handleSaveEstimation(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeBody(w, r, &raw); err != nil {
		writeError(w, err)
		return
	}
	if err := s.App.SaveEstimation(r.Context(), raw); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	theme, err := s.App.SetTheme(r.Context(), req.Theme)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]settings.Theme{"theme": theme})
}

type pinRequest struct {
	Current string `json:"current"`
	// An empty PIN removes the lock.
	PIN string `json:"pin"`
}

func (s *Server) handlePIN(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	var err error
	if strings.TrimSpace(req.PIN) == "" {
		err = s.App.ClearPIN(r.Context(), req.Current)
	} else {
		err = s.App.SetPIN(r.Context(), req.Current, req.PIN)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasPin": s.App.Snapshot().HasPIN})
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.App.Unlock(req.PIN); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"unlocked": true})
}
