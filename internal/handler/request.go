package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/segyhp/loan-engine/internal/domain"
	"github.com/segyhp/loan-engine/internal/service"
	customError "github.com/segyhp/loan-engine/pkg/errors"
	"github.com/segyhp/loan-engine/pkg/response"
)

const (
	// UserIDHeader carries the id of the authenticated back-office user.
	UserIDHeader = "X-User-ID"

	maxUploadSize = 32 << 20
	maxFormMemory = 1 << 20 // larger file parts spill to temp files
	payloadField  = "payload"
)

// UserIDMiddleware puts the user id from UserIDHeader on the request context.
// Requests without the header reach the handlers anonymously and are rejected
// by operations that need an actor.
func UserIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.FromError(w, fmt.Errorf("%w: %s must be a positive integer", customError.ErrMalformedRequest, UserIDHeader))
			return
		}
		next.ServeHTTP(w, r.WithContext(service.WithActor(r.Context(), id)))
	})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", customError.ErrMalformedRequest, name)
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return decodeBody(r.Body, dst, false)
}

func decodeBody(body io.Reader, dst interface{}, allowEmpty bool) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if allowEmpty && err == io.EOF {
			return nil
		}
		return fmt.Errorf("%w: %v", customError.ErrMalformedRequest, err)
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

// decodeMultipart reads the JSON payload field of a multipart request into dst.
func decodeMultipart(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return fmt.Errorf("%w: %v", customError.ErrMalformedRequest, err)
	}
	payload := r.FormValue(payloadField)
	if payload == "" {
		return nil
	}
	return decodeBody(strings.NewReader(payload), dst, false)
}

// releaseForm removes the temp files of a parsed multipart form.
func releaseForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// formDocument returns the uploaded file in field, or nil when none was sent.
func formDocument(r *http.Request, field string) (*domain.Document, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	header := r.MultipartForm.File[field][0]
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %v", customError.ErrMalformedRequest, field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %s: %v", customError.ErrMalformedRequest, field, err)
	}
	return &domain.Document{FileName: header.Filename, Data: data}, nil
}
