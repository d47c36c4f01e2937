package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/light-bringer/storefront/internal/app/catalog/usecases/save_record"
)

var errBadRequest = errors.New("bad request")

const maxBody = 1 << 20

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// decode reads a JSON body into dst. Unknown fields are rejected.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

type addToCartRequest struct {
	ItemID string `json:"item_id"`
}

func (r addToCartRequest) validate() error {
	if r.ItemID == "" {
		return badRequest("item_id is required")
	}
	return nil
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (r setQuantityRequest) validate() error {
	if r.Quantity == nil {
		return badRequest("quantity is required")
	}
	return nil
}

type categoryRequest struct {
	Category string `json:"category"`
}

type searchRequest struct {
	Query string `json:"query"`
	// Flush applies the query without waiting for the debounce delay.
	Flush bool `json:"flush"`
}

type sortRequest struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

func (r sortRequest) validate() error {
	if r.Field == "" {
		return badRequest("field is required")
	}
	return nil
}

type pageRequest struct {
	Page int `json:"page"`
}

type languageRequest struct {
	Language string `json:"language"`
}

func (r languageRequest) validate() error {
	if r.Language == "" {
		return badRequest("language is required")
	}
	return nil
}

type feedbackRequest struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

const maxUpload = 32 << 20

// parseSaveRequest reads admin fields from a JSON object or a multipart form.
// The returned cleanup releases the uploaded file.
func parseSaveRequest(r *http.Request) (*save_record.Request, func(), error) {
	cleanup := func() {}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType != "multipart/form-data" {
		var fields map[string]any
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
		dec.UseNumber()
		if err := dec.Decode(&fields); err != nil {
			return nil, cleanup, badRequest("invalid request body: %v", err)
		}
		if len(fields) == 0 {
			return nil, cleanup, badRequest("at least one field is required")
		}
		return &save_record.Request{Fields: fields}, cleanup, nil
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, cleanup, badRequest("invalid multipart body: %v", err)
	}
	form := r.MultipartForm
	cleanup = func() { _ = form.RemoveAll() }

	if len(form.File) > 1 {
		return nil, cleanup, badRequest("only one file field is allowed")
	}

	req := &save_record.Request{Fields: make(map[string]any, len(form.Value))}
	for k, vs := range form.Value {
		if len(vs) > 0 {
			req.Fields[k] = vs[0]
		}
	}
	for field, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			return nil, cleanup, badRequest("unreadable file %s: %v", field, err)
		}
		req.FileField, req.FileName, req.File = field, headers[0].Filename, f
		cleanup = func() {
			f.Close()
			_ = form.RemoveAll()
		}
	}
	if len(req.Fields) == 0 && req.File == nil {
		return nil, cleanup, badRequest("at least one field is required")
	}
	return req, cleanup, nil
}
