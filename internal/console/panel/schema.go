package panel

import (
	"fmt"
	"strconv"
	"strings"

	"libraryconsole/pkg/models"
)

// Entity is anything a panel can list.
type Entity interface {
	EntityID() int64
	Summary() string
}

// Field is one input of a panel's form.
type Field struct {
	Name  string
	Label string
	Type  string // html input type
}

// Schema is what distinguishes one panel from another: its fields, how form
// values become a request body and, for editable resources, how an entity
// fills the form back in.
type Schema[T Entity] struct {
	Name   string
	Title  string
	Fields []Field

	Payload func(values map[string]string) (any, error)

	// nil for create-and-list resources
	FormValues   func(item T) map[string]string
	DeletePrompt func(item T) string
}

func (s Schema[T]) Editable() bool {
	return s.FormValues != nil
}

func UsersSchema() Schema[models.User] {
	return Schema[models.User]{
		Name:  "users",
		Title: "Users",
		Fields: []Field{
			{Name: "name", Label: "Name", Type: "text"},
			{Name: "email", Label: "Email", Type: "email"},
		},
		Payload: func(values map[string]string) (any, error) {
			return models.UserRequest{Name: values["name"], Email: values["email"]}, nil
		},
		FormValues: func(u models.User) map[string]string {
			return map[string]string{"name": u.Name, "email": u.Email}
		},
		DeletePrompt: func(u models.User) string {
			return fmt.Sprintf("Are you sure you want to delete %s?", u.Name)
		},
	}
}

func BooksSchema() Schema[models.Book] {
	return Schema[models.Book]{
		Name:  "books",
		Title: "Books",
		Fields: []Field{
			{Name: "title", Label: "Title", Type: "text"},
			{Name: "author", Label: "Author", Type: "text"},
		},
		Payload: func(values map[string]string) (any, error) {
			return models.BookRequest{Title: values["title"], Author: values["author"]}, nil
		},
		FormValues: func(b models.Book) map[string]string {
			return map[string]string{"title": b.Title, "author": b.Author}
		},
		DeletePrompt: func(b models.Book) string {
			return fmt.Sprintf("Are you sure you want to delete %q?", b.Title)
		},
	}
}

// LoansSchema has no edit or delete: loans are create-and-list only here.
func LoansSchema() Schema[models.Loan] {
	return Schema[models.Loan]{
		Name:  "loans",
		Title: "Loans",
		Fields: []Field{
			{Name: "user_id", Label: "User ID", Type: "number"},
			{Name: "book_id", Label: "Book ID", Type: "number"},
		},
		Payload: func(values map[string]string) (any, error) {
			userID, err := parseID(values["user_id"], "User ID")
			if err != nil {
				return nil, err
			}
			bookID, err := parseID(values["book_id"], "Book ID")
			if err != nil {
				return nil, err
			}
			return models.LoanRequest{UserID: userID, BookID: bookID}, nil
		},
	}
}

func parseID(value, label string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", label)
	}
	return id, nil
}
