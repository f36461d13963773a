// web/handlers.go
package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/VitaminP8/postline/internal/auth"
	"github.com/VitaminP8/postline/internal/comment"
	"github.com/VitaminP8/postline/internal/follow"
	"github.com/VitaminP8/postline/internal/forms"
	"github.com/VitaminP8/postline/internal/group"
	"github.com/VitaminP8/postline/internal/pagecache"
	"github.com/VitaminP8/postline/internal/pagination"
	"github.com/VitaminP8/postline/internal/post"
	"github.com/VitaminP8/postline/internal/user"
	"github.com/VitaminP8/postline/models"
	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20

type Handlers struct {
	posts     post.PostStorage
	groups    group.GroupStorage
	comments  comment.CommentStorage
	follows   follow.FollowStorage
	users     user.UserStorage
	Session   *scs.SessionManager
	cache     *pagecache.Cache
	templates *template.Template
	mediaDir  string
}

func NewHandlers(
	posts post.PostStorage,
	groups group.GroupStorage,
	comments comment.CommentStorage,
	follows follow.FollowStorage,
	users user.UserStorage,
	session *scs.SessionManager,
	cache *pagecache.Cache,
	mediaDir string,
) (*Handlers, error) {
	tpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}

	return &Handlers{
		posts:     posts,
		groups:    groups,
		comments:  comments,
		follows:   follows,
		users:     users,
		Session:   session,
		cache:     cache,
		templates: tpl,
		mediaDir:  mediaDir,
	}, nil
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	// Кэшируется только главная (как и в остальном — мутации кэш не сбрасывают)
	mux.Handle("GET /{$}", h.cache.Middleware(http.HandlerFunc(h.index)))

	mux.HandleFunc("GET /group/{slug}/{$}", h.groupPosts)
	mux.HandleFunc("GET /group/new/{$}", h.newGroup)
	mux.HandleFunc("POST /group/new/{$}", h.newGroup)

	mux.HandleFunc("GET /new/{$}", h.newPost)
	mux.HandleFunc("POST /new/{$}", h.newPost)

	mux.HandleFunc("GET /follow/{$}", h.followIndex)

	mux.HandleFunc("GET /about/author/{$}", h.aboutAuthor)
	mux.HandleFunc("GET /about/tech/{$}", h.aboutTech)

	mux.HandleFunc("GET /auth/signup/{$}", h.signup)
	mux.HandleFunc("POST /auth/signup/{$}", h.signup)
	mux.HandleFunc("GET /auth/login/{$}", h.login)
	mux.HandleFunc("POST /auth/login/{$}", h.login)
	mux.HandleFunc("GET /auth/logout/{$}", h.logout)

	mux.HandleFunc("GET /{username}/{$}", h.profile)
	// follow/unfollow делят форму адреса со страницей поста — отдельные
	// шаблоны /{username}/follow/ конфликтовали бы с /group/{slug}/
	mux.HandleFunc("GET /{username}/{postID}/{$}", h.profilePage)
	mux.HandleFunc("GET /{username}/{postID}/edit/{$}", h.postEdit)
	mux.HandleFunc("POST /{username}/{postID}/edit/{$}", h.postEdit)
	mux.HandleFunc("POST /{username}/{postID}/comment/{$}", h.addComment)

	// Все, что не совпало с маршрутами выше
	mux.HandleFunc("/", h.notFound)
}

// currentUser возвращает авторизованного пользователя или nil
func (h *Handlers) currentUser(r *http.Request) *models.User {
	id, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		return nil
	}
	u, err := h.users.GetUserByID(id)
	if err != nil {
		return nil
	}
	return u
}

// requireLogin отправляет неавторизованного пользователя на логин,
// передавая исходный адрес в параметре next
func (h *Handlers) requireLogin(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	u := h.currentUser(r)
	if u == nil {
		target := "/auth/login/?next=" + url.QueryEscape(r.URL.RequestURI())
		http.Redirect(w, r, target, http.StatusFound)
		return nil, false
	}
	return u, true
}

func postURL(username string, postID uint) string {
	return fmt.Sprintf("/%s/%d/", username, postID)
}

// validateGroup проверяет, что выбранная в форме группа существует
func (h *Handlers) validateGroup(form *forms.PostForm) error {
	if form.GroupID == nil {
		return nil
	}
	_, err := h.groups.GetGroupByID(*form.GroupID)
	if errors.Is(err, group.ErrNotFound) {
		form.Errors["group"] = "Выберите существующую группу"
		return nil
	}
	return err
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	page := pagination.ParsePage(r.URL.Query().Get("page"))

	posts, err := h.posts.ListPosts(pagination.PageSize, pagination.Offset(page, pagination.PageSize))
	if err != nil {
		h.serverError(w, err)
		return
	}

	total, err := h.posts.CountPosts()
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, http.StatusOK, "index.html", postListData{
		Title:      "Последние обновления",
		Posts:      posts,
		Pagination: pagination.New(page, pagination.PageSize, total),
		User:       h.currentUser(r),
	})
}

func (h *Handlers) groupPosts(w http.ResponseWriter, r *http.Request) {
	g, err := h.groups.GetGroupBySlug(r.PathValue("slug"))
	if errors.Is(err, group.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	page := pagination.ParsePage(r.URL.Query().Get("page"))

	posts, err := h.posts.ListGroupPosts(g.ID, pagination.PageSize, pagination.Offset(page, pagination.PageSize))
	if err != nil {
		h.serverError(w, err)
		return
	}

	total, err := h.posts.CountGroupPosts(g.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, http.StatusOK, "group.html", postListData{
		Title:      g.Title,
		Posts:      posts,
		Pagination: pagination.New(page, pagination.PageSize, total),
		Group:      g,
		User:       h.currentUser(r),
	})
}

func (h *Handlers) newPost(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireLogin(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "new_post.html", postFormData{
			Title:  "Создать запись",
			Button: "Отправить",
			Form:   forms.NewPostForm(nil, nil),
			Fields: forms.PostFields,
			User:   u,
		})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.serverError(w, err)
		return
	}

	form := forms.NewPostForm(r.PostForm, nil)
	image, err := h.saveImage(r)
	if err != nil {
		h.serverError(w, err)
		return
	}
	form.Image = image

	if err := h.validateGroup(form); err != nil {
		h.serverError(w, err)
		return
	}

	if !form.IsValid() {
		// Невалидная форма показывается заново со статусом 200
		h.render(w, http.StatusOK, "new_post.html", postFormData{
			Title:  "Создать запись",
			Button: "Отправить",
			Form:   form,
			Fields: forms.PostFields,
			User:   u,
		})
		return
	}

	_, err = h.posts.CreatePost(r.Context(), form.Text, form.GroupID, form.Image)
	if err != nil {
		h.serverError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) postEdit(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireLogin(w, r)
	if !ok {
		return
	}

	username := r.PathValue("username")
	postID, err := strconv.ParseUint(r.PathValue("postID"), 10, 32)
	if err != nil {
		h.notFound(w, r)
		return
	}

	author, err := h.users.GetUserByUsername(username)
	if errors.Is(err, user.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	// Чужие посты не редактируем — молча уводим на страницу поста
	if u.ID != author.ID {
		http.Redirect(w, r, postURL(username, uint(postID)), http.StatusFound)
		return
	}

	p, err := h.posts.GetPostByID(uint(postID))
	if errors.Is(err, post.ErrNotFound) || (err == nil && p.UserID != author.ID) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "new_post.html", postFormData{
			Title:  "Редактировать запись",
			Button: "Сохранить",
			Form:   forms.NewPostForm(nil, p),
			Fields: forms.PostFields,
			Post:   p,
			User:   u,
		})
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.serverError(w, err)
		return
	}

	form := forms.NewPostForm(r.PostForm, p)
	image, err := h.saveImage(r)
	if err != nil {
		h.serverError(w, err)
		return
	}
	if image != "" {
		form.Image = image
	}

	if err := h.validateGroup(form); err != nil {
		h.serverError(w, err)
		return
	}

	if !form.IsValid() {
		h.render(w, http.StatusOK, "new_post.html", postFormData{
			Title:  "Редактировать запись",
			Button: "Сохранить",
			Form:   form,
			Fields: forms.PostFields,
			Post:   p,
			User:   u,
		})
		return
	}

	_, err = h.posts.UpdatePost(r.Context(), p.ID, form.Text, form.GroupID, form.Image)
	if err != nil {
		h.serverError(w, err)
		return
	}

	http.Redirect(w, r, postURL(username, p.ID), http.StatusSeeOther)
}

// profilePage разводит /имя/follow/, /имя/unfollow/ и /имя/<id>/
func (h *Handlers) profilePage(w http.ResponseWriter, r *http.Request) {
	switch r.PathValue("postID") {
	case "follow":
		h.profileFollow(w, r)
	case "unfollow":
		h.profileUnfollow(w, r)
	default:
		h.postView(w, r)
	}
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	author, err := h.users.GetUserByUsername(r.PathValue("username"))
	if errors.Is(err, user.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	page := pagination.ParsePage(r.URL.Query().Get("page"))

	posts, err := h.posts.ListAuthorPosts(author.ID, pagination.PageSize, pagination.Offset(page, pagination.PageSize))
	if err != nil {
		h.serverError(w, err)
		return
	}

	total, err := h.posts.CountAuthorPosts(author.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}

	u := h.currentUser(r)
	following := false
	if u != nil {
		following, _ = h.follows.IsFollowing(u.ID, author.ID)
	}

	h.render(w, http.StatusOK, "profile.html", profileData{
		Author:     author,
		Posts:      posts,
		PostsCount: total,
		Pagination: pagination.New(page, pagination.PageSize, total),
		Following:  following,
		User:       u,
	})
}

func (h *Handlers) postView(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseUint(r.PathValue("postID"), 10, 32)
	if err != nil {
		h.notFound(w, r)
		return
	}

	p, err := h.posts.GetPostByID(uint(postID))
	if errors.Is(err, post.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	// Автор берется из URL, а не из самого поста
	author, err := h.users.GetUserByUsername(r.PathValue("username"))
	if errors.Is(err, user.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	comments, err := h.comments.GetComments(p.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}

	total, err := h.posts.CountAuthorPosts(author.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, http.StatusOK, "post.html", postDetailData{
		Post:       p,
		Author:     author,
		PostsCount: total,
		Comments:   comments,
		Form:       forms.NewCommentForm(nil),
		Fields:     forms.CommentFields,
		User:       h.currentUser(r),
	})
}

func (h *Handlers) addComment(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	postID, err := strconv.ParseUint(r.PathValue("postID"), 10, 32)
	if err != nil {
		h.notFound(w, r)
		return
	}

	if _, err := h.posts.GetPostByID(uint(postID)); errors.Is(err, post.ErrNotFound) {
		h.notFound(w, r)
		return
	} else if err != nil {
		h.serverError(w, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.serverError(w, err)
		return
	}

	// Невалидный комментарий, как и гостевой, молча отбрасывается —
	// редирект на страницу поста в любом случае
	form := forms.NewCommentForm(r.PostForm)
	if form.IsValid() && h.currentUser(r) != nil {
		_, err = h.comments.CreateComment(r.Context(), uint(postID), form.Text)
		if err != nil {
			h.serverError(w, err)
			return
		}
	}

	http.Redirect(w, r, postURL(username, uint(postID)), http.StatusSeeOther)
}

func (h *Handlers) followIndex(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireLogin(w, r)
	if !ok {
		return
	}

	page := pagination.ParsePage(r.URL.Query().Get("page"))

	posts, err := h.posts.ListFeedPosts(u.ID, pagination.PageSize, pagination.Offset(page, pagination.PageSize))
	if err != nil {
		h.serverError(w, err)
		return
	}

	total, err := h.posts.CountFeedPosts(u.ID)
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, http.StatusOK, "follow.html", postListData{
		Title:      "Избранные авторы",
		Posts:      posts,
		Pagination: pagination.New(page, pagination.PageSize, total),
		User:       u,
	})
}

func (h *Handlers) profileFollow(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireLogin(w, r); !ok {
		return
	}

	username := r.PathValue("username")
	author, err := h.users.GetUserByUsername(username)
	if errors.Is(err, user.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	if err := h.follows.Follow(r.Context(), author.ID); err != nil {
		h.serverError(w, err)
		return
	}

	http.Redirect(w, r, "/"+username+"/", http.StatusFound)
}

func (h *Handlers) profileUnfollow(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireLogin(w, r); !ok {
		return
	}

	username := r.PathValue("username")
	author, err := h.users.GetUserByUsername(username)
	if errors.Is(err, user.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	err = h.follows.Unfollow(r.Context(), author.ID)
	if errors.Is(err, follow.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}

	http.Redirect(w, r, "/"+username+"/", http.StatusFound)
}

func (h *Handlers) newGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := h.requireLogin(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet {
		h.render(w, http.StatusOK, "new_group.html", groupFormData{
			Form:   forms.NewGroupForm(nil),
			Fields: forms.GroupFields,
			User:   u,
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		h.serverError(w, err)
		return
	}

	form := forms.NewGroupForm(r.PostForm)
	if !form.IsValid() {
		h.render(w, http.StatusOK, "new_group.html", groupFormData{
			Form:   form,
			Fields: forms.GroupFields,
			User:   u,
		})
		return
	}

	g, err := h.groups.CreateGroup(form.Title, form.Slug, form.Description)
	if err != nil {
		form.Errors["slug"] = "Группа с таким адресом уже существует"
		h.render(w, http.StatusOK, "new_group.html", groupFormData{
			Form:   form,
			Fields: forms.GroupFields,
			User:   u,
		})
		return
	}

	http.Redirect(w, r, "/group/"+g.Slug+"/", http.StatusSeeOther)
}

func (h *Handlers) aboutAuthor(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "about.html", staticPageData{
		JustTitle: "Об Авторе",
		JustText:  "Тут дооолгая история.",
	})
}

func (h *Handlers) aboutTech(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "about.html", staticPageData{
		JustTitle: "Какие там технологии?",
		JustText:  "Как тут много всего писать",
	})
}

// saveImage сохраняет необязательную картинку из формы и возвращает
// относительный путь для показа. Без картинки возвращает пустую строку.
func (h *Handlers) saveImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("could not read image: %w", err)
	}
	defer file.Close()

	name := uuid.New().String() + filepath.Ext(header.Filename)
	dir := filepath.Join(h.mediaDir, "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create media dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("could not create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("could not save image: %w", err)
	}

	return "posts/" + name, nil
}
