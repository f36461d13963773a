package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/VitaminP8/postline/internal/forms"
	"github.com/VitaminP8/postline/internal/pagination"
	"github.com/VitaminP8/postline/models"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// postListData — данные страниц со списком постов (главная, группа, лента)
type postListData struct {
	Title      string
	Posts      []models.Post
	Pagination pagination.Data
	Group      *models.Group
	User       *models.User
}

// profileData — страница профиля автора
type profileData struct {
	Author     *models.User
	Posts      []models.Post
	PostsCount int
	Pagination pagination.Data
	Following  bool
	User       *models.User
}

// postDetailData — страница поста с комментариями
type postDetailData struct {
	Post       *models.Post
	Author     *models.User
	PostsCount int
	Comments   []models.Comment
	Form       *forms.CommentForm
	Fields     map[string]forms.Field
	User       *models.User
}

// postFormData — форма создания/редактирования поста
type postFormData struct {
	Title  string
	Button string
	Form   *forms.PostForm
	Fields map[string]forms.Field
	Post   *models.Post
	User   *models.User
}

// groupFormData — форма создания сообщества
type groupFormData struct {
	Form   *forms.GroupForm
	Fields map[string]forms.Field
	User   *models.User
}

type staticPageData struct {
	JustTitle string
	JustText  string
}

func (h *Handlers) render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := h.templates.ExecuteTemplate(w, name, data)
	if err != nil {
		log.Printf("Error executing template %s: %v", name, err)
	}
}

// notFound рендерит страницу 404 с запрошенным путем
func (h *Handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, "404.html", map[string]string{"Path": r.URL.Path})
}

func (h *Handlers) serverError(w http.ResponseWriter, err error) {
	log.Printf("Server error: %v", err)
	h.render(w, http.StatusInternalServerError, "500.html", nil)
}
