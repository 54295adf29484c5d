package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	// ErrEmptyBody возвращается при пустом теле запроса
	ErrEmptyBody = errors.New("handlers: empty request body")
)

// DecodeJSON декодирует JSON тело запроса в указанную структуру
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}
