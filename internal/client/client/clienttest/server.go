// Package clienttest provides an in-memory fake of the filedesk REST backend
// for tests. Routes mirror the real API under the /api prefix.
package clienttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/filedesk/internal/client/models"
	"github.com/go-chi/chi/v5"
)

type account struct {
	user     models.User
	password string
}

// Server is a fake backend. All exported methods are safe for concurrent use.
type Server struct {
	srv *httptest.Server

	mu             sync.Mutex
	nextID         int64
	accounts       map[string]*account // by username
	tokens         map[string]string   // credential -> username
	identityTokens map[string]string   // identity token -> username
	files          []models.FileRecord
	addresses      []models.Address
	stats          models.DashboardStats
	failures       map[string]int
	requests       []string
	authHeaders    []string
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		nextID:         1,
		accounts:       map[string]*account{},
		tokens:         map[string]string{},
		identityTokens: map[string]string{},
		failures:       map[string]int{},
	}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API base URL, including the /api prefix.
func (s *Server) URL() string {
	return s.srv.URL + "/api"
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.forcedFailures)

		r.Post("/login/", s.handleLogin)
		r.Post("/register/", s.handleRegister)

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)

			r.Post("/logout/", s.handleLogout)
			r.Get("/profile/", s.handleGetProfile)
			r.Put("/profile/", s.handleUpdateProfile)
			r.Patch("/profile/", s.handleUpdateProfile)

			r.Get("/files/", s.handleListFiles)
			r.Post("/files/", s.handleCreateFile)
			r.Delete("/files/{id}/", s.handleDeleteFile)

			r.Get("/addresses/", s.handleListAddresses)
			r.Post("/addresses/", s.handleCreateAddress)
			r.Put("/addresses/{id}/", s.handleUpdateAddress)
			r.Delete("/addresses/{id}/", s.handleDeleteAddress)

			r.Get("/dashboard-stats/", s.handleStats)
		})
	})

	return r
}

// AddUser creates an account and returns a valid credential for it.
func (s *Server) AddUser(u models.User, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == 0 {
		u.ID = s.id()
	}
	s.accounts[u.Username] = &account{user: u, password: password}
	return s.issueToken(u.Username)
}

// AcceptIdentityToken makes the login endpoint accept idToken for username.
func (s *Server) AcceptIdentityToken(idToken, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identityTokens[idToken] = username
}

// RevokeToken invalidates a credential so the next request using it gets 401.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// FailWith makes "METHOD /api/path" answer status until cleared with 0.
func (s *Server) FailWith(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(s.failures, key)
		return
	}
	s.failures[key] = status
}

// SetFiles replaces the stored file records.
func (s *Server) SetFiles(files []models.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append([]models.FileRecord(nil), files...)
}

// Files returns a copy of the stored file records.
func (s *Server) Files() []models.FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.FileRecord(nil), s.files...)
}

// SetAddresses replaces the stored addresses.
func (s *Server) SetAddresses(list []models.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = append([]models.Address(nil), list...)
	for _, a := range list {
		if a.ID >= s.nextID {
			s.nextID = a.ID + 1
		}
	}
}

// Addresses returns a copy of the stored addresses.
func (s *Server) Addresses() []models.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Address(nil), s.addresses...)
}

// SetStats sets the dashboard aggregates.
func (s *Server) SetStats(st models.DashboardStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = st
}

// User returns the stored account record.
func (s *Server) User(username string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[username]
	if !ok {
		return models.User{}, false
	}
	return a.user, true
}

// Requests lists "METHOD /api/path" for every request received.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// RequestCount counts requests matching method and path.
func (s *Server) RequestCount(method, path string) int {
	key := method + " " + path
	n := 0
	for _, r := range s.Requests() {
		if r == key {
			n++
		}
	}
	return n
}

// AuthHeaders lists the Authorization header of every request ("" if none).
func (s *Server) AuthHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.authHeaders...)
}

func (s *Server) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Server) issueToken(username string) string {
	tok := fmt.Sprintf("tok-%s-%d", username, s.id())
	s.tokens[tok] = username
	return tok
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) forcedFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, ok := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()
		if ok {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if h == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		tok, ok := strings.CutPrefix(h, "Token ")
		s.mu.Lock()
		username, valid := s.tokens[tok]
		s.mu.Unlock()
		if !ok || !valid {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
			return
		}
		r.Header.Set("X-Fake-User", username)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var acc *account
	switch {
	case req.Username != "" && req.Password != "":
		if a, ok := s.accounts[req.Username]; ok && a.password == req.Password {
			acc = a
		}
	case req.FirebaseToken != "":
		if name, ok := s.identityTokens[req.FirebaseToken]; ok {
			acc = s.accounts[name]
		}
	}

	if acc == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:    s.issueToken(acc.user.Username),
		UserID:   acc.user.ID,
		Username: acc.user.Username,
		Email:    acc.user.Email,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fields := map[string][]string{}
	if _, exists := s.accounts[req.Username]; exists {
		fields["username"] = append(fields["username"], "A user with that username already exists.")
	}
	if req.Password != req.PasswordConfirm {
		fields["password"] = append(fields["password"], "Password fields didn't match.")
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, fields)
		return
	}

	u := models.User{
		ID:          s.id(),
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	}
	s.accounts[u.Username] = &account{user: u, password: req.Password}
	if req.FirebaseToken != "" {
		s.identityTokens[req.FirebaseToken] = u.Username
	}

	writeJSON(w, http.StatusCreated, models.RegisterResponse{User: u, Token: s.issueToken(u.Username)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Successfully logged out"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.accounts[r.Header.Get("X-Fake-User")].user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[r.Header.Get("X-Fake-User")]
	u := acc.user
	for k, v := range fields {
		str, _ := v.(string)
		switch k {
		case "username":
			u.Username = str
		case "first_name":
			u.FirstName = str
		case "last_name":
			u.LastName = str
		case "phone_number":
			u.PhoneNumber = str
		}
	}
	acc.user = u
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(s.files))
}

func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}

	name := r.FormValue("filename")
	size, _ := strconv.ParseInt(r.FormValue("file_size"), 10, 64)

	rec := models.FileRecord{
		Filename:   name,
		FileSize:   size,
		UploadDate: time.Now().UTC(),
		FileURL:    r.FormValue("file_url"),
	}

	if f, hdr, err := r.FormFile("file"); err == nil {
		_ = f.Close()
		rec.File = s.srv.URL + "/media/uploads/" + hdr.Filename
	} else if rec.FileURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"file": {"No file was submitted."}})
		return
	}

	s.mu.Lock()
	rec.ID = s.id()
	s.files = append(s.files, rec)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.files {
		if f.ID == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) handleListAddresses(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(s.addresses))
}

func (s *Server) handleCreateAddress(w http.ResponseWriter, r *http.Request) {
	var a models.Address
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.id()
	s.applyDefault(a)
	s.addresses = append(s.addresses, a)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var a models.Address
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}
	a.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.addresses {
		if s.addresses[i].ID == id {
			s.applyDefault(a)
			s.addresses[i] = a
			writeJSON(w, http.StatusOK, a)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

// applyDefault keeps at most one default address, like the real backend.
func (s *Server) applyDefault(a models.Address) {
	if !a.IsDefault {
		return
	}
	for i := range s.addresses {
		if s.addresses[i].ID != a.ID {
			s.addresses[i].IsDefault = false
		}
	}
}

func (s *Server) handleDeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.addresses {
		if a.ID == id {
			s.addresses = append(s.addresses[:i], s.addresses[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.stats)
}

func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
