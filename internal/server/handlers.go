package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/lacquerai/weighin/internal/chart"
	"github.com/lacquerai/weighin/internal/history"
	"github.com/lacquerai/weighin/internal/scorer"
	"github.com/lacquerai/weighin/internal/session"
	"github.com/rs/zerolog/log"
)

// Prediction is the full answer to one prediction request.
type Prediction struct {
	Result          scorer.PredictionResult `json:"result"`
	Metadata        scorer.CategoryMetadata `json:"metadata"`
	Recommendations []string                `json:"recommendations"`
	Contributions   []scorer.Contribution   `json:"contributions"`
	History         []history.Entry         `json:"history"`
}

// CategoryInfo is the catalog entry of one category.
type CategoryInfo struct {
	scorer.CategoryMetadata
	Rank            int      `json:"rank"`
	Recommendations []string `json:"recommendations"`
}

// sessionFor returns the caller's session, issuing a cookie for new ones.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *session.Session {
	id := ""
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		id = cookie.Value
	}

	sess, created := s.sessions.GetOrCreate(id)
	if created {
		cookie := &http.Cookie{
			Name:     SessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		}
		if s.config.SessionTTL > 0 {
			cookie.MaxAge = int(s.config.SessionTTL.Seconds())
		}
		http.SetCookie(w, cookie)
		log.Debug().Str("session_id", sess.ID).Msg("Session created")
	}
	return sess
}

// predict decodes, scores and records one submission.
func (s *Server) predict(sess *session.Session, values map[string]any) (*Prediction, error) {
	start := time.Now()

	record, err := scorer.DecodeRecord(values)
	if err != nil {
		s.metrics.ObserveInvalid()
		return nil, err
	}
	result, err := scorer.Evaluate(record)
	if err != nil {
		s.metrics.ObserveInvalid()
		return nil, err
	}
	s.metrics.ObservePrediction(result.Category, time.Since(start))

	meta, _ := scorer.MetadataFor(result.Category)
	sess.Record(history.Entry{
		Timestamp:     time.Now(),
		BMI:           result.BMI,
		Category:      string(result.Category),
		CategoryLabel: meta.Label,
		Confidence:    result.Confidence,
	})

	log.Debug().
		Str("session_id", sess.ID).
		Str("category", string(result.Category)).
		Float64("bmi", result.BMI).
		Int("risk_score", result.RiskScore).
		Msg("Prediction made")

	return &Prediction{
		Result:          result,
		Metadata:        meta,
		Recommendations: scorer.Recommendations(string(result.Category)),
		Contributions:   scorer.Explain(record),
		History:         sess.History().Latest(),
	}, nil
}

// index renders the empty form
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	s.renderPage(w, http.StatusOK, pageData{
		Fields:          surveyFields(),
		History:         sess.History().Latest(),
		HistoryCapacity: sess.History().Cap(),
	})
}

// predictForm handles the form post and renders the result page
func (s *Server) predictForm(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid form: %v", err), http.StatusBadRequest)
		return
	}

	submitted := make(map[string]string, len(r.PostForm))
	values := make(map[string]any, len(r.PostForm))
	for key := range r.PostForm {
		submitted[key] = r.PostForm.Get(key)
		values[key] = submitted[key]
	}

	data := pageData{HistoryCapacity: sess.History().Cap()}

	pred, err := s.predict(sess, values)
	status := http.StatusOK
	var verr *scorer.ValidationError
	switch {
	case err == nil:
		data.Result = pred
		data.Chart = template.HTML(chart.BMIChart(pred.Result.BMI))
	case errors.As(err, &verr):
		data.Errors = verr.Errors
		status = http.StatusBadRequest
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data.Fields = fillFields(submitted, data.Errors)
	data.History = sess.History().Latest()
	s.renderPage(w, status, data)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.ExecuteTemplate(w, "page", data); err != nil {
		log.Error().Err(err).Msg("Failed to render page")
	}
}

// apiPredict scores a JSON record
func (s *Server) apiPredict(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": fmt.Sprintf("Invalid JSON: %v", err),
		})
		return
	}

	pred, err := s.predict(sess, values)
	if err != nil {
		var verr *scorer.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, formatValidationErrors(verr))
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, pred)
}

// listCategories returns metadata and advice for every category
func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories := make([]CategoryInfo, 0, len(scorer.Categories()))
	for _, c := range scorer.Categories() {
		meta, _ := scorer.MetadataFor(c)
		categories = append(categories, CategoryInfo{
			CategoryMetadata: meta,
			Rank:             c.Rank(),
			Recommendations:  scorer.Recommendations(string(c)),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
	})
}

// getRecommendations returns the advice list for a category key. Unknown
// keys get an empty list.
func (s *Server) getRecommendations(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["category"]
	writeJSON(w, http.StatusOK, map[string]any{
		"category":        key,
		"recommendations": scorer.Recommendations(key),
	})
}

// getHistory returns the session history, newest first
func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"capacity":   sess.History().Cap(),
		"entries":    sess.History().Latest(),
	})
}

// clearHistory empties the session history
func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	sess.History().Clear()
	w.WriteHeader(http.StatusNoContent)
}

// streamHistory pushes the session's history over a websocket: the current
// entries first, oldest to newest, then each new entry as it is recorded.
func (s *Server) streamHistory(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)

	// the upgrade response only carries headers passed explicitly
	var header http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		header = http.Header{"Set-Cookie": cookies}
	}

	conn, err := s.upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	if err := sess.Replay(conn); err != nil {
		return
	}
	defer sess.Unsubscribe(conn)

	// Keep the connection open until the client goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// chartSVG renders the BMI bracket chart for the bmi query parameter
func (s *Server) chartSVG(w http.ResponseWriter, r *http.Request) {
	bmi, err := strconv.ParseFloat(r.URL.Query().Get("bmi"), 64)
	if err != nil || bmi <= 0 {
		http.Error(w, "bmi query parameter must be a positive number", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, chart.BMIChart(bmi))
}

// healthCheck returns server health status
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"active_sessions": s.sessions.Count(),
		"timestamp":       time.Now(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// formatValidationErrors formats validation errors for HTTP response
func formatValidationErrors(verr *scorer.ValidationError) map[string]any {
	details := make([]map[string]any, len(verr.Errors))
	for i, fe := range verr.Errors {
		details[i] = map[string]any{
			"field":   fe.Field,
			"message": fe.Message,
		}
		if fe.Value != nil {
			details[i]["value"] = fe.Value
		}
	}

	return map[string]any{
		"error":   "Input validation failed",
		"details": details,
	}
}
