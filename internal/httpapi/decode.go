package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"book_registry/internal/models"
)

const (
	msgNotJSON        = "Request body must be JSON"
	msgTooLarge       = "Request body too large"
	msgRequiredFields = "Fields 'title' and 'author' are required"
)

var errTooLarge = errors.New("body too large")

// isJSON reports whether the request declares a JSON body
// (application/json or any application/*+json type).
func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

// readObject decodes the body into its top level keys. Anything that is
// not a JSON object is rejected.
func readObject(r *http.Request) (map[string]json.RawMessage, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, errTooLarge
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if fields == nil {
		return nil, errors.New("body is null")
	}
	return fields, nil
}

// requireJSON writes the 400 response itself when the request does not
// declare a JSON body.
func requireJSON(w http.ResponseWriter, r *http.Request) bool {
	if !isJSON(r) {
		writeError(w, http.StatusBadRequest, msgNotJSON)
		return false
	}
	return true
}

// decodeBody reads the object body of a request that passed requireJSON.
// It writes the 400/413 response itself and reports whether the handler may go on.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, bool) {
	fields, err := readObject(r)
	if errors.Is(err, errTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, msgNotJSON)
		return nil, false
	}
	return fields, true
}

type fieldError struct {
	field string
	want  string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("Field '%s' must be %s", e.field, e.want)
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// stringField returns "" for null, like an absent title on create.
func stringField(fields map[string]json.RawMessage, name string) (string, bool, error) {
	raw, ok := fields[name]
	if !ok {
		return "", false, nil
	}
	if isNull(raw) {
		return "", true, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", true, &fieldError{field: name, want: "a string"}
	}
	return v, true, nil
}

func yearField(fields map[string]json.RawMessage) (*int, bool, error) {
	raw, ok := fields["year"]
	if !ok {
		return nil, false, nil
	}
	if isNull(raw) {
		return nil, true, nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, true, &fieldError{field: "year", want: "an integer"}
	}
	return &v, true, nil
}

// readField coerces any JSON value to a boolean with the usual truthiness:
// null, false, 0, "", [] and {} are false.
func readField(fields map[string]json.RawMessage) (bool, bool, error) {
	raw, ok := fields["read"]
	if !ok {
		return false, false, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, true, &fieldError{field: "read", want: "a boolean"}
	}
	switch t := v.(type) {
	case nil:
		return false, true, nil
	case bool:
		return t, true, nil
	case float64:
		return t != 0, true, nil
	case string:
		return t != "", true, nil
	case []any:
		return len(t) > 0, true, nil
	case map[string]any:
		return len(t) > 0, true, nil
	}
	return true, true, nil
}

// parseNewBook validates a create request.
func parseNewBook(fields map[string]json.RawMessage) (models.Book, error) {
	title, _, err := stringField(fields, "title")
	if err != nil {
		return models.Book{}, err
	}
	author, _, err := stringField(fields, "author")
	if err != nil {
		return models.Book{}, err
	}
	year, _, err := yearField(fields)
	if err != nil {
		return models.Book{}, err
	}
	read, _, err := readField(fields)
	if err != nil {
		return models.Book{}, err
	}

	if title == "" || author == "" {
		return models.Book{}, errors.New(msgRequiredFields)
	}

	return models.Book{Title: title, Author: author, Year: year, Read: read}, nil
}

// parsePatch collects the recognised keys of an update request. Values are
// not validated beyond their JSON type; unknown keys are ignored.
func parsePatch(fields map[string]json.RawMessage) (models.BookPatch, error) {
	var patch models.BookPatch

	if title, ok, err := stringField(fields, "title"); err != nil {
		return patch, err
	} else if ok {
		patch.Title = &title
	}

	if author, ok, err := stringField(fields, "author"); err != nil {
		return patch, err
	} else if ok {
		patch.Author = &author
	}

	year, ok, err := yearField(fields)
	if err != nil {
		return patch, err
	}
	patch.YearSet, patch.Year = ok, year

	if read, ok, err := readField(fields); err != nil {
		return patch, err
	} else if ok {
		patch.Read = &read
	}

	return patch, nil
}
