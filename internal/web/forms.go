package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/EmpoweredVote/lego-catalog/internal/apperr"
	"github.com/EmpoweredVote/lego-catalog/internal/auth"
	"github.com/EmpoweredVote/lego-catalog/internal/catalog"
)

// setFromForm reads the add/edit set form.
func setFromForm(r *http.Request) (catalog.Set, error) {
	if err := r.ParseForm(); err != nil {
		return catalog.Set{}, apperr.Wrap(apperr.CodeValidation, "Invalid form data", err)
	}

	set := catalog.Set{
		SetNum: strings.TrimSpace(r.PostForm.Get("set_num")),
		Name:   strings.TrimSpace(r.PostForm.Get("name")),
		ImgURL: strings.TrimSpace(r.PostForm.Get("img_url")),
	}

	var err error
	if set.Year, err = formInt(r, "year"); err != nil {
		return catalog.Set{}, err
	}
	if set.NumParts, err = formInt(r, "num_parts"); err != nil {
		return catalog.Set{}, err
	}
	if set.ThemeID, err = formInt(r, "theme_id"); err != nil {
		return catalog.Set{}, err
	}
	return set, nil
}

func formInt(r *http.Request, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get(field)))
	if err != nil {
		return 0, apperr.Wrap(apperr.CodeValidation, field+" must be an integer", err)
	}
	return n, nil
}

func registrationFromForm(r *http.Request) auth.Registration {
	return auth.Registration{
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
		Password2: r.PostFormValue("password2"),
		Email:     r.PostFormValue("email"),
	}
}

func credentialsFromForm(r *http.Request) auth.Credentials {
	return auth.Credentials{
		Username:  r.PostFormValue("username"),
		Password:  r.PostFormValue("password"),
		UserAgent: r.UserAgent(),
	}
}
