package web

import (
	"log"
	"net/http"

	"github.com/EmpoweredVote/lego-catalog/internal/apperr"
	"github.com/EmpoweredVote/lego-catalog/internal/session"
	"github.com/EmpoweredVote/lego-catalog/internal/utils"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	msgSetsNotFound = "Unable to find requested sets"
	msgSetNotFound  = "Unable to find requested set"
	msgPageNotFound = "I'm sorry, we're unable to find what you're looking for"
	msgServerError  = "I'm sorry, but we have encountered the following error: "
)

func sessionUser(r *http.Request) (*session.User, bool) {
	return utils.GetSessionFromContext(r.Context())
}

func logErr(r *http.Request, op string, err error) {
	log.Printf("[web] %s %s: %v", chimiddleware.GetReqID(r.Context()), op, err)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	data := s.page(r)
	data.Message = msg
	s.views.render(w, http.StatusNotFound, "404", data)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	data := s.page(r)
	data.Message = msgServerError + err.Error()
	s.views.render(w, http.StatusInternalServerError, "500", data)
}

func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	s.views.render(w, http.StatusOK, "home", s.page(r))
}

func (s *Server) AboutHandler(w http.ResponseWriter, r *http.Request) {
	s.views.render(w, http.StatusOK, "about", s.page(r))
}

func (s *Server) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	s.notFound(w, r, msgPageNotFound)
}

// ListSetsHandler lists every set, or the sets of themes matching ?theme=.
func (s *Server) ListSetsHandler(w http.ResponseWriter, r *http.Request) {
	data := s.page(r)

	var err error
	if theme := r.URL.Query().Get("theme"); theme != "" {
		data.Sets, err = s.catalog.SetsByTheme(r.Context(), theme)
	} else {
		data.Sets, err = s.catalog.AllSets(r.Context())
	}
	if err != nil {
		logErr(r, "list sets", err)
		s.notFound(w, r, msgSetsNotFound)
		return
	}

	s.views.render(w, http.StatusOK, "sets", data)
}

func (s *Server) SetHandler(w http.ResponseWriter, r *http.Request) {
	set, err := s.catalog.SetByNum(r.Context(), chi.URLParam(r, "setNum"))
	if err != nil {
		logErr(r, "get set", err)
		s.notFound(w, r, msgSetNotFound)
		return
	}

	data := s.page(r)
	data.Set = &set
	s.views.render(w, http.StatusOK, "set", data)
}

func (s *Server) AddSetFormHandler(w http.ResponseWriter, r *http.Request) {
	themes, err := s.catalog.AllThemes(r.Context())
	if err != nil {
		logErr(r, "list themes", err)
		s.serverError(w, r, err)
		return
	}

	data := s.page(r)
	data.Themes = themes
	s.views.render(w, http.StatusOK, "addSet", data)
}

func (s *Server) AddSetHandler(w http.ResponseWriter, r *http.Request) {
	set, err := setFromForm(r)
	if err == nil {
		err = s.catalog.AddSet(r.Context(), set)
	}
	if err != nil {
		logErr(r, "add set", err)
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/lego/sets", http.StatusSeeOther)
}

func (s *Server) EditSetFormHandler(w http.ResponseWriter, r *http.Request) {
	set, err := s.catalog.SetByNum(r.Context(), chi.URLParam(r, "setNum"))
	if err != nil {
		s.notFound(w, r, err.Error())
		return
	}

	themes, err := s.catalog.AllThemes(r.Context())
	if err != nil {
		logErr(r, "list themes", err)
		s.notFound(w, r, err.Error())
		return
	}

	data := s.page(r)
	data.Set = &set
	data.Themes = themes
	s.views.render(w, http.StatusOK, "editSet", data)
}

// EditSetHandler updates the set named by the form's set_num field.
func (s *Server) EditSetHandler(w http.ResponseWriter, r *http.Request) {
	set, err := setFromForm(r)
	if err == nil {
		err = s.catalog.EditSet(r.Context(), set.SetNum, set)
	}
	if err != nil {
		logErr(r, "edit set", err)
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/lego/sets", http.StatusSeeOther)
}

func (s *Server) DeleteSetHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteSet(r.Context(), chi.URLParam(r, "setNum")); err != nil {
		logErr(r, "delete set", err)
		s.notFound(w, r, err.Error())
		return
	}

	http.Redirect(w, r, "/lego/sets", http.StatusSeeOther)
}

func (s *Server) LoginFormHandler(w http.ResponseWriter, r *http.Request) {
	s.views.render(w, http.StatusOK, "login", s.page(r))
}

func (s *Server) RegisterFormHandler(w http.ResponseWriter, r *http.Request) {
	s.views.render(w, http.StatusOK, "register", s.page(r))
}

func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	reg := registrationFromForm(r)
	data := s.page(r)

	if err := s.accounts.Register(r.Context(), reg); err != nil {
		data.ErrorMessage = err.Error()
		data.Username = reg.Username
		s.views.render(w, apperr.HTTPStatus(apperr.CodeOf(err)), "register", data)
		return
	}

	data.SuccessMessage = "User created"
	s.views.render(w, http.StatusOK, "register", data)
}

// LoginHandler authenticates the form, copies the account into the session and
// sends the user to their login history.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	creds := credentialsFromForm(r)

	user, err := s.accounts.Authenticate(r.Context(), creds)
	if err != nil {
		data := s.page(r)
		data.ErrorMessage = err.Error()
		data.Username = creds.Username
		s.views.render(w, apperr.HTTPStatus(apperr.CodeOf(err)), "login", data)
		return
	}

	if err := s.sessions.Save(w, r, session.FromAccount(user)); err != nil {
		logErr(r, "save session", err)
		s.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, "/userHistory", http.StatusSeeOther)
}

func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) UserHistoryHandler(w http.ResponseWriter, r *http.Request) {
	s.views.render(w, http.StatusOK, "userHistory", s.page(r))
}
