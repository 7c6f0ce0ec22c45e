package models

import "fmt"

type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type BookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

func (b Book) EntityID() int64 { return b.ID }

func (b Book) Summary() string {
	return fmt.Sprintf("ID: %d, Title: %s, Author: %s", b.ID, b.Title, b.Author)
}
