package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/course-forge/quizforge/internal/canvas"
)

const sessionName = "quizforge"

// ErrNotAuthenticated is returned when neither the request body nor the
// session carries LMS credentials.
var ErrNotAuthenticated = errors.New("Authenticate first.")

// creds is one user's LMS coordinates for the duration of a browser
// session. They live in an encrypted cookie, so the server itself stays
// stateless across restarts.
type creds struct {
	Base  string
	Token string
}

func newSessionStore(secret string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

// credsFrom resolves credentials for a request: body credentials win and
// refresh the session; otherwise the session's stored pair is used.
func (s *Server) credsFrom(w http.ResponseWriter, r *http.Request, bodyBase, bodyToken string) (creds, error) {
	sess, _ := s.sessions.Get(r, sessionName)
	if bodyToken != "" {
		c := creds{Base: canvas.NormalizeBaseURL(orDefault(bodyBase, s.defaultBase)), Token: bodyToken}
		sess.Values["canvas_base_url"] = c.Base
		sess.Values["canvas_token"] = c.Token
		_ = sess.Save(r, w)
		return c, nil
	}
	base, _ := sess.Values["canvas_base_url"].(string)
	token, _ := sess.Values["canvas_token"].(string)
	if token == "" {
		return creds{}, ErrNotAuthenticated
	}
	return creds{Base: base, Token: token}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
