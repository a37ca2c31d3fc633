package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	h.logger.Error("internal server error", "method", r.Method, "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "error", err)
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			return errors.New("request body contains malformed JSON")
		case errors.As(err, &typeErr):
			return errors.New("request body has a field of the wrong type: " + typeErr.Field)
		default:
			return err
		}
	}

	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

// badRequest reports only the first validation failure, translated.
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusNotFound, msg)
}

func (h *Handler) conflict(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, http.StatusConflict, msg)
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "internal server error",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func (h *Handler) createdResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusCreated, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}
