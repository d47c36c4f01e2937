package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/light-bringer/storefront/internal/app/catalog/contracts"
)

const (
	csrfCookie = "csrftoken"
	csrfHeader = "X-CSRFToken"
)

// Mutation is an admin create (empty ID) or partial update of one record.
type Mutation struct {
	Resource contracts.Resource
	ID       string
	Fields   map[string]any

	// FileField names the single multipart file part, if any.
	FileField string
	FileName  string
	File      io.Reader
}

// AdminClient sends admin mutations as multipart forms guarded by a CSRF token.
type AdminClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAdminClient creates an admin client. A cookie jar is attached when the
// configured HTTP client has none, since the CSRF cookie lives there.
func NewAdminClient(cfg Config, logger *zap.Logger) (*AdminClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		clone := *httpClient
		clone.Jar = jar
		httpClient = &clone
	}
	return &AdminClient{baseURL: base, httpClient: httpClient, logger: logger}, nil
}

// Save creates the record with POST when m.ID is empty and updates it with
// PATCH otherwise. It returns the record ID reported by the backend.
func (a *AdminClient) Save(ctx context.Context, m Mutation) (string, error) {
	resource := string(m.Resource)
	token, err := a.csrfToken(ctx)
	if err != nil {
		return "", err
	}

	body, contentType, err := encodeMultipart(m)
	if err != nil {
		return "", &FetchError{Resource: resource, Message: "encode form", Err: err}
	}

	method := http.MethodPost
	target := a.resolve(m.Resource.Path() + "/")
	if m.ID != "" {
		method = http.MethodPatch
		target = a.resolve(m.Resource.Path() + "/" + url.PathEscape(m.ID) + "/")
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return "", &FetchError{Resource: resource, Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(csrfHeader, token)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{Resource: resource, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(payload))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return "", &FetchError{Resource: resource, Status: resp.StatusCode, Message: msg}
	}

	id := m.ID
	if gjson.ValidBytes(payload) {
		if got := canonicalID(first(gjson.ParseBytes(payload), keysID...)); got != "" {
			id = got
		}
	}
	a.logger.Info("admin mutation saved",
		zap.String("resource", resource),
		zap.String("method", method),
		zap.String("id", id))
	return id, nil
}

// csrfToken prefers the cookie and falls back to the token endpoint.
func (a *AdminClient) csrfToken(ctx context.Context) (string, error) {
	if token := a.cookieToken(); token != "" {
		return token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.resolve("csrf/"), nil)
	if err != nil {
		return "", &FetchError{Resource: "csrf", Message: "create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{Resource: "csrf", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{Resource: "csrf", Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if token := first(gjson.ParseBytes(payload), "csrfToken", "csrf_token", "token").String(); token != "" {
		return token, nil
	}
	if token := a.cookieToken(); token != "" {
		return token, nil
	}
	return "", &FetchError{Resource: "csrf", Status: resp.StatusCode, Message: "no csrf token in response"}
}

func (a *AdminClient) cookieToken() string {
	for _, c := range a.httpClient.Jar.Cookies(a.baseURL) {
		if c.Name == csrfCookie && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

func (a *AdminClient) resolve(path string) string {
	return a.baseURL.String() + "/" + path
}

func encodeMultipart(m Mutation) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		if k != m.FileField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		value, ok, err := formValue(m.Fields[k])
		if err != nil {
			return nil, "", fmt.Errorf("field %s: %w", k, err)
		}
		if !ok {
			continue
		}
		if err := w.WriteField(k, value); err != nil {
			return nil, "", err
		}
	}

	if m.FileField != "" && m.File != nil {
		name := m.FileName
		if name == "" {
			name = m.FileField
		}
		part, err := w.CreateFormFile(m.FileField, name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, m.File); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// formValue renders scalars as strings and JSON-encodes collections.
// Nil values are omitted.
func formValue(v any) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}
	switch t := v.(type) {
	case string:
		return t, true, nil
	case fmt.Stringer:
		return t.String(), true, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true, nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true, nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		data, err := json.Marshal(v)
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	case reflect.Pointer:
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return "", false, nil
		}
		return formValue(rv.Elem().Interface())
	}
	return fmt.Sprint(v), true, nil
}
