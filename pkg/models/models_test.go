package models_test

import (
	"encoding/json"
	"testing"

	"libraryconsole/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string { return &s }

func TestUserSummary(t *testing.T) {
	u := models.User{ID: 1, Name: "Ana", Email: "a@x.com"}
	summary := u.Summary()

	assert.Contains(t, summary, "1")
	assert.Contains(t, summary, "Ana")
	assert.Contains(t, summary, "a@x.com")
	assert.Equal(t, int64(1), u.EntityID())
}

func TestBookSummary(t *testing.T) {
	b := models.Book{ID: 5, Title: "Dune", Author: "Herbert"}
	assert.Equal(t, "ID: 5, Title: Dune, Author: Herbert", b.Summary())
}

func TestLoanSummary(t *testing.T) {
	t.Run("Outstanding", func(t *testing.T) {
		l := models.Loan{ID: 3, UserID: 1, BookID: 5, LoanDate: "2024-05-01"}
		assert.True(t, l.Outstanding())
		assert.Equal(t, "ID: 3, User ID: 1, Book ID: 5, Loan date: 2024-05-01, Return date: Not returned", l.Summary())
	})

	t.Run("Returned", func(t *testing.T) {
		l := models.Loan{ID: 3, UserID: 1, BookID: 5, LoanDate: "2024-05-01", ReturnDate: stringPtr("2024-05-20")}
		assert.False(t, l.Outstanding())
		assert.Contains(t, l.Summary(), "Return date: 2024-05-20")
	})

	t.Run("OptionalFields", func(t *testing.T) {
		l := models.Loan{ID: 3, LoanDate: "2024-05-01", DueDate: stringPtr("2024-05-15"), Status: "active"}
		assert.Contains(t, l.Summary(), "Due date: 2024-05-15")
		assert.Contains(t, l.Summary(), "Status: active")
	})
}

func TestLoanDecodeNullReturnDate(t *testing.T) {
	var l models.Loan
	err := json.Unmarshal([]byte(`{"id":7,"user_id":2,"book_id":9,"loan_date":"2024-01-02","return_date":null}`), &l)
	require.NoError(t, err)

	assert.Nil(t, l.ReturnDate)
	assert.Equal(t, int64(9), l.BookID)
}

func TestLoanRequestEncoding(t *testing.T) {
	data, err := json.Marshal(models.LoanRequest{UserID: 1, BookID: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":1,"book_id":2}`, string(data))
}
