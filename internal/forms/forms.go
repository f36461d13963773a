// Package forms валидирует пользовательский ввод и несет метаданные
// для отрисовки полей (подпись, подсказка, placeholder).
// Формы возвращают несохраненные сущности — серверные поля (автор, пост)
// проставляет вызывающий код перед записью в хранилище.
package forms

import (
	"net/url"
	"strconv"

	"github.com/VitaminP8/postline/models"
)

const requiredError = "Заполните поле"

type Field struct {
	Label       string
	Help        string
	Placeholder string
}

var PostFields = map[string]Field{
	"text":  {Label: "Какой-то текст", Help: "Есть идеи? Пиши", Placeholder: "Введите текст"},
	"group": {Label: "Выбери группу", Help: "Кто ты?"},
	"image": {Label: "Вставьте картинку", Help: "Выберите картинку"},
}

var CommentFields = map[string]Field{
	"text": {Label: "Какой-то текст к посту", Help: "О, интересный пост? Пиши"},
}

var GroupFields = map[string]Field{
	"title":       {Label: "Название", Help: "Название группы"},
	"slug":        {Label: "Адрес для группы", Help: "Только латиница, цифры, дефисы и подчёркивания"},
	"description": {Label: "Описание", Help: "Описание группы"},
}

type PostForm struct {
	Text    string
	GroupID *uint
	Image   string
	Errors  map[string]string
}

// NewPostForm разбирает ввод; instance (при редактировании) дает начальные значения
func NewPostForm(values url.Values, instance *models.Post) *PostForm {
	f := &PostForm{Errors: make(map[string]string)}

	if instance != nil {
		f.Text = instance.Text
		f.GroupID = instance.GroupID
		f.Image = instance.Image
	}

	if values == nil {
		return f
	}

	f.Text = values.Get("text")
	f.GroupID = nil
	if raw := values.Get("group"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			f.Errors["group"] = "Выберите существующую группу"
		} else {
			groupID := uint(id)
			f.GroupID = &groupID
		}
	}

	return f
}

func (f *PostForm) IsValid() bool {
	if f.Text == "" {
		f.Errors["text"] = requiredError
	}
	return len(f.Errors) == 0
}

// Post возвращает несохраненную сущность (автора проставляет вызывающий код)
func (f *PostForm) Post() *models.Post {
	return &models.Post{
		Text:    f.Text,
		GroupID: f.GroupID,
		Image:   f.Image,
	}
}

type CommentForm struct {
	Text   string
	Errors map[string]string
}

func NewCommentForm(values url.Values) *CommentForm {
	f := &CommentForm{Errors: make(map[string]string)}
	if values != nil {
		f.Text = values.Get("text")
	}
	return f
}

func (f *CommentForm) IsValid() bool {
	if f.Text == "" {
		f.Errors["text"] = requiredError
	}
	return len(f.Errors) == 0
}

func (f *CommentForm) Comment() *models.Comment {
	return &models.Comment{Text: f.Text}
}

type GroupForm struct {
	Title       string
	Slug        string
	Description string
	Errors      map[string]string
}

func NewGroupForm(values url.Values) *GroupForm {
	f := &GroupForm{Errors: make(map[string]string)}
	if values != nil {
		f.Title = values.Get("title")
		f.Slug = values.Get("slug")
		f.Description = values.Get("description")
	}
	return f
}

func (f *GroupForm) IsValid() bool {
	if f.Title == "" {
		f.Errors["title"] = requiredError
	}
	return len(f.Errors) == 0
}

// Group возвращает несохраненную сущность; пустой slug выводится из названия
func (f *GroupForm) Group() *models.Group {
	return &models.Group{
		Title:       f.Title,
		Slug:        f.Slug,
		Description: f.Description,
	}
}
