// Package web serves the catalog and account pages.
package web

import (
	"context"
	"net/http"

	"github.com/EmpoweredVote/lego-catalog/internal/auth"
	"github.com/EmpoweredVote/lego-catalog/internal/catalog"
	"github.com/EmpoweredVote/lego-catalog/internal/session"
	"golang.org/x/time/rate"
)

// Catalog is the set/theme store the pages read and edit.
type Catalog interface {
	AllSets(ctx context.Context) ([]catalog.Set, error)
	SetByNum(ctx context.Context, setNum string) (catalog.Set, error)
	SetsByTheme(ctx context.Context, theme string) ([]catalog.Set, error)
	AddSet(ctx context.Context, set catalog.Set) error
	AllThemes(ctx context.Context) ([]catalog.Theme, error)
	EditSet(ctx context.Context, setNum string, set catalog.Set) error
	DeleteSet(ctx context.Context, setNum string) error
}

// Accounts registers and authenticates users.
type Accounts interface {
	Register(ctx context.Context, reg auth.Registration) error
	Authenticate(ctx context.Context, c auth.Credentials) (auth.User, error)
}

type Options struct {
	// StaticDir holds the css served under /css. Empty disables static files.
	StaticDir  string
	LoginRate  rate.Limit
	LoginBurst int
	// TrustProxy takes the client address from X-Forwarded-For and friends.
	// Leave it off unless a proxy in front rewrites those headers.
	TrustProxy bool
}

type Server struct {
	catalog  Catalog
	accounts Accounts
	sessions *session.Manager
	views    *views
	opts     Options
}

func NewServer(cat Catalog, accounts Accounts, sessions *session.Manager, opts Options) (*Server, error) {
	v, err := parseViews()
	if err != nil {
		return nil, err
	}
	if opts.LoginRate == 0 {
		opts.LoginRate = rate.Inf
	}
	return &Server{
		catalog:  cat,
		accounts: accounts,
		sessions: sessions,
		views:    v,
		opts:     opts,
	}, nil
}

// page builds the view data shared by every page.
func (s *Server) page(r *http.Request) pageData {
	u, _ := sessionUser(r)
	return pageData{Session: u}
}
