// internal/httpserver/routes_settings.go
//
// Per-owner dashboard settings. Guests get settings too, scoped to the
// anon cookie, so toggles survive reloads without an account.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// settingDefaults lists the recognised keys and their defaults.
var settingDefaults = map[string]string{
	"profanityFilter":     "off",
	"onboardingCompleted": "false",
}

func (s *Server) mountSettings(r chi.Router) {
	r.Get("/settings", s.handleGetSettings)
	r.Put("/settings", s.handlePutSettings)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	stored, err := s.store.Settings(r.Context(), owner)
	if err != nil {
		log.Error().Err(err).Msg("load settings")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	out := make(map[string]string, len(settingDefaults))
	for k, def := range settingDefaults {
		if v, ok := stored[k]; ok {
			out[k] = v
		} else {
			out[k] = def
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	for k, v := range body {
		if _, known := settingDefaults[k]; !known {
			http.Error(w, `{"error":"unknown setting `+k+`"}`, http.StatusBadRequest)
			return
		}
		if err := s.store.SetSetting(r.Context(), owner, k, v); err != nil {
			log.Error().Err(err).Str("key", k).Msg("save setting")
			http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
			return
		}
	}
	s.handleGetSettings(w, r)
}
