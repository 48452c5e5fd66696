package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	errs "github.com/jrsteele09/go-webhook-relay/internal/errors"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// IndexHandler returns service metadata and the registered endpoint list.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":     s.config.GetAppName(),
			"version":     serviceVersion,
			"description": serviceDescription,
			"endpoints":   s.EndpointList(),
			"timestamp":   time.Now().UTC(),
		})
	}
}

// HealthHandler reports liveness, uptime and the current session count.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":         "healthy",
			"timestamp":      time.Now().UTC(),
			"uptime":         time.Since(s.startedAt).Round(time.Second).String(),
			"activeSessions": s.store.Size(),
		})
	}
}

// sessionView is the introspection shape of one stored session record.
type sessionView struct {
	SessionKey   string    `json:"sessionKey"`
	SessionUID   string    `json:"sessionUid"`
	UserID       string    `json:"userId"`
	ChannelID    string    `json:"channelId"`
	UserName     string    `json:"userName"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
}

// SessionsListHandler lists every active session record.
func (s *Server) SessionsListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := s.store.All()

		views := make([]sessionView, 0, len(records))
		for _, kr := range records {
			views = append(views, sessionView{
				SessionKey:   kr.Key,
				SessionUID:   kr.Record.SessionUID,
				UserID:       kr.Record.UserID,
				ChannelID:    kr.Record.ChannelID,
				UserName:     kr.Record.UserName,
				CreatedAt:    kr.Record.CreatedAt,
				LastActivity: kr.Record.LastActivity,
			})
		}
		// Store order is nondeterministic; sort for stable output.
		sort.Slice(views, func(i, j int) bool { return views[i].SessionKey < views[j].SessionKey })

		writeJSON(w, http.StatusOK, map[string]any{
			"totalSessions": len(views),
			"sessions":      views,
		})
	}
}

// SessionsClearHandler removes every session record.
func (s *Server) SessionsClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cleared := s.store.Clear()
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"message":   fmt.Sprintf("Cleared %d sessions", cleared),
			"timestamp": time.Now().UTC(),
		})
	}
}

type createSessionRequest struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	UserName  string `json:"user_name"`
}

// SessionsCreateHandler provisions a provider session without relaying a
// message.
func (s *Server) SessionsCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // An empty body means no fields.
		}

		key, sessionUID, err := s.processor.CreateManualSession(r.Context(), req.UserID, req.ChannelID, req.UserName)
		if err != nil {
			if errs.Is(err, errs.ErrMissingField) {
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"success": false,
					"error":   "user_id and channel_id are required",
				})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"sessionKey": key,
			"sessionUid": sessionUID,
			"message":    "Session created",
		})
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writePlainText responds in plain text with an explicit Content-Length,
// which is what the Trillion platform expects back from its webhook.
func writePlainText(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", contentTypeText)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}
