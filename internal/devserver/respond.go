package devserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

// page is the paginated envelope the client expects
type page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func pageParams(r *http.Request) (number, size int) {
	number, _ = strconv.Atoi(r.URL.Query().Get("page"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if number < 0 {
		number = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return number, size
}

// paginate slices items. Pages past the end yield empty content, never an error.
func paginate[T any](items []T, number, size int) page[T] {
	total := len(items)
	p := page[T]{
		Content:       []T{},
		TotalPages:    (total + size - 1) / size,
		TotalElements: int64(total),
		Number:        number,
		Size:          size,
	}
	if number >= p.TotalPages {
		return p
	}
	start := number * size
	end := min(start+size, total)
	p.Content = items[start:end]
	return p
}
