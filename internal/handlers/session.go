package handlers

import (
	"errors"
	"net/http"

	"github.com/csg33k/people-indicators/internal/domain"
	"github.com/csg33k/people-indicators/internal/templates"
)

const sessionCookieName = "people_session"

// session returns the caller's live session, or nil when there is none.
// Every hit slides the expiry forward. A cookie pointing at a session that no
// longer exists is cleared.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*domain.Session, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	now := h.now()
	s, err := h.store.Get(r.Context(), cookie.Value, now)
	if errors.Is(err, domain.ErrSessionNotFound) {
		clearSessionCookie(w)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.ExpiresAt = now.Add(h.opts.SessionTTL)
	if err := h.store.Touch(r.Context(), s.ID, s.ExpiresAt); err != nil {
		return nil, err
	}
	return s, nil
}

// loadedSession is session for views that need a roster. When none is loaded
// it renders the no-data notice itself and reports false.
func (h *Handler) loadedSession(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	s, err := h.session(w, r)
	if err != nil {
		h.serverError(w, r, err)
		return nil, false
	}
	if !s.HasRoster() {
		render(w, r, templates.NoData())
		return nil, false
	}
	return s, true
}

func setSessionCookie(w http.ResponseWriter, s *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
