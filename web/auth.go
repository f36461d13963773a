package web

import (
	"errors"
	"net/http"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/internal/forms"
	"github.com/VitaminP8/postline/internal/user"
)

type authPageData struct {
	Next   string
	Error  string
	Fields map[string]forms.Field
}

var authFields = map[string]forms.Field{
	"username": {Label: "Имя пользователя"},
	"email":    {Label: "Электронная почта"},
	"password": {Label: "Пароль"},
}

func (h *Handlers) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "signup.html", authPageData{
			Next:   r.URL.Query().Get("next"),
			Fields: authFields,
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.serverError(w, err)
		return
	}

	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if username == "" || email == "" || password == "" {
		h.render(w, http.StatusOK, "signup.html", authPageData{
			Next:   r.PostFormValue("next"),
			Error:  "Заполните все поля",
			Fields: authFields,
		})
		return
	}

	u, err := h.users.RegisterUser(username, email, password)
	if err != nil {
		h.render(w, http.StatusOK, "signup.html", authPageData{
			Next:   r.PostFormValue("next"),
			Error:  "Не удалось зарегистрироваться: " + err.Error(),
			Fields: authFields,
		})
		return
	}

	h.Session.Put(r.Context(), auth.SessionUserKey, int(u.ID))
	http.Redirect(w, r, redirectTarget(r.PostFormValue("next")), http.StatusSeeOther)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "login.html", authPageData{
			Next:   r.URL.Query().Get("next"),
			Fields: authFields,
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.serverError(w, err)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	// LoginUser проверяет пароль (и выдает JWT для API-клиентов)
	_, err := h.users.LoginUser(username, password)
	if err != nil {
		msg := "Не удалось войти"
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrInvalidPassword) {
			msg = "Неверное имя пользователя или пароль"
		}
		h.render(w, http.StatusOK, "login.html", authPageData{
			Next:   r.PostFormValue("next"),
			Error:  msg,
			Fields: authFields,
		})
		return
	}

	u, err := h.users.GetUserByUsername(username)
	if err != nil {
		h.serverError(w, err)
		return
	}

	// Новая сессия после логина
	if err := h.Session.RenewToken(r.Context()); err != nil {
		h.serverError(w, err)
		return
	}
	h.Session.Put(r.Context(), auth.SessionUserKey, int(u.ID))

	http.Redirect(w, r, redirectTarget(r.PostFormValue("next")), http.StatusSeeOther)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.Destroy(r.Context()); err != nil {
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// redirectTarget не дает увести пользователя на чужой хост через next
func redirectTarget(next string) string {
	if next == "" || next[0] != '/' {
		return "/"
	}
	if len(next) > 1 && next[1] == '/' {
		return "/"
	}
	return next
}
