package api

import (
	"net/http"

	"github.com/2beens/blogpress/internal/apperr"
	"github.com/2beens/blogpress/internal/query"
	"github.com/2beens/blogpress/pkg"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message,omitempty"`
	Data       any                 `json:"data,omitempty"`
	Count      *int                `json:"count,omitempty"`
	Total      *int                `json:"total,omitempty"`
	Pagination *query.Pagination   `json:"pagination,omitempty"`
	Errors     []apperr.FieldError `json:"errors,omitempty"`
}

func OK(w http.ResponseWriter, data any) {
	pkg.WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	pkg.WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

func Message(w http.ResponseWriter, statusCode int, message string) {
	pkg.WriteJSON(w, statusCode, Envelope{Success: statusCode < 400, Message: message})
}

// List writes a page of items with its count, the filtered total and the
// next/prev links.
func List[T any](w http.ResponseWriter, items []T, total int, page query.Page) {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	pagination := page.Paginate(total)
	pkg.WriteJSON(w, http.StatusOK, Envelope{
		Success:    true,
		Data:       items,
		Count:      &count,
		Total:      &total,
		Pagination: &pagination,
	})
}

// Respond writes a successful body carrying both a message and data.
func Respond(w http.ResponseWriter, statusCode int, message string, data any) {
	pkg.WriteJSON(w, statusCode, Envelope{Success: true, Message: message, Data: data})
}
