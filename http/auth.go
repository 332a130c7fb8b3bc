package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"inkwell/auth"
	"inkwell/domain"
	"inkwell/errs"
)

func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/logout", s.handleLogout).Methods("POST")
	r.HandleFunc("/profile", s.requireAuth(s.handleProfile)).Methods("GET")
}

// credentials is the json body of register and login requests.
type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// session is the json response of successful register and login requests.
// The token is also set as a cookie, so browser clients don't need to
// store it themselves.
type session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// handleRegister handles the route "POST /register".
// New accounts always get the user role; admin accounts only ever come
// from the startup bootstrap.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := domain.User{
		Name:     creds.Name,
		Email:    creds.Email,
		Password: creds.Password,
		Role:     auth.RoleUser,
	}
	if err := s.us.Create(&user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	token, err := s.signIn(w, &user)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(session{Token: token, User: &user}); err != nil {
		errs.LogError(r, err)
	}
}

// handleLogin handles the route "POST /login".
// It checks the submitted password and issues a credential carrying the
// user's stored role.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user, err := s.us.Authenticate(creds.Email, creds.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	token, err := s.signIn(w, user)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(session{Token: token, User: user}); err != nil {
		errs.LogError(r, err)
	}
}

// handleLogout handles the route "POST /logout".
// Credentials are stateless, so there is nothing to revoke server-side;
// logging out means instructing the client to discard the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})
	response := map[string]string{"message": "successfully logged out"}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		errs.LogError(r, err)
	}
}

// handleProfile handles the route "GET /profile".
// It returns the stored record of whoever the credential identifies.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentity(r.Context())
	user, err := s.us.ByID(identity.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
	}
}

// signIn issues a credential for the user and sets it as a cookie.
func (s *Server) signIn(w http.ResponseWriter, user *domain.User) (string, error) {
	token, err := s.authority.Issue(auth.Identity{
		ID:   user.ID,
		Name: user.Name,
		Role: user.Role,
	}, s.tokenTTL)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  time.Now().Add(s.tokenTTL),
		HttpOnly: true,
		Path:     "/",
	})
	return token, nil
}
