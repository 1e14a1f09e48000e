// Package transport provides a generic HTTP transport layer for services.
//
// Inspired by:
// - https://www.willem.dev/articles/generic-http-handlers/ - for use of generics
// - https://github.com/go-kit/kit - for StatusCoder interface

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/datamesh/mesh-console/pkg/errs"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
)

const (
	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"

	// formTagName is the struct tag used when decoding html forms
	formTagName = "form"
)

type StatusCoder interface {
	StatusCode() int
}

type Encoder interface {
	Encode(w http.ResponseWriter) error
}

// DecoderFunc is a function that decodes a request into a struct
type DecoderFunc[In any] func(r *http.Request) (In, error)

// TargetFunc is a function that handles the request and returns a response, ideally
// we shouldn't have to use the http.Request, but sometimes we need it to fetch
// query parameters, headers, or similar
type TargetFunc[In any, Out any] func(context.Context, *http.Request, In) (Out, error)

type Transport[In any, Out any] struct {
	decoderFn DecoderFunc[In]
	targetFn  TargetFunc[In, Out]
}

func For[In any, Out any](target TargetFunc[In, Out]) *Transport[In, Out] {
	return &Transport[In, Out]{
		targetFn: target,
	}
}

func (h *Transport[In, Out]) RequestFromJSON() *Transport[In, Out] {
	h.decoderFn = decodeJSON[In]

	return h
}

// RequestFromForm decodes an url encoded or multipart form into In, using
// the form struct tags. Requests with a JSON body are decoded as JSON, so
// the same endpoint serves both the browser and scripted clients.
func (h *Transport[In, Out]) RequestFromForm() *Transport[In, Out] {
	h.decoderFn = func(r *http.Request) (In, error) {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if mediaType == contentTypeJSON {
			return decodeJSON[In](r)
		}

		var in In

		err := r.ParseForm()
		if err != nil {
			return in, fmt.Errorf("parsing form: %w", err)
		}

		values := map[string]interface{}{}
		for key, v := range r.PostForm {
			if len(v) > 0 {
				values[key] = v[0]
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          formTagName,
			WeaklyTypedInput: true,
			Result:           &in,
		})
		if err != nil {
			return in, err
		}

		err = decoder.Decode(values)
		if err != nil {
			return in, fmt.Errorf("decoding form: %w", err)
		}

		return in, nil
	}

	return h
}

func decodeJSON[In any](r *http.Request) (In, error) {
	var in In

	err := json.NewDecoder(r.Body).Decode(&in)
	if err != nil {
		return in, err
	}

	return in, nil
}

func (h *Transport[In, Out]) encode(w http.ResponseWriter, out Out) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	// If the output implements the StatusCoder interface, use the status code from it
	code := http.StatusOK
	if sc, ok := any(out).(StatusCoder); ok {
		code = sc.StatusCode()
	}

	w.WriteHeader(code)
	if code == http.StatusNoContent {
		return nil
	}

	err := json.NewEncoder(w).Encode(out)
	if err != nil {
		return err
	}

	return nil
}

func (h *Transport[In, Out]) Build(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug().Str("method", r.Method).Str("url", r.URL.RequestURI()).Msg("handling request")

		var in In
		var err error

		if h.decoderFn != nil {
			in, err = h.decoderFn(r)
			if err != nil {
				errs.HTTPErrorResponse(w, logger, errs.E(errs.InvalidRequest, err))
				return
			}
		}

		out, err := h.targetFn(r.Context(), r, in)
		if err != nil {
			errs.HTTPErrorResponse(w, logger, err)
			return
		}

		// If the output implements the Encoder interface, use it
		if v, ok := any(out).(Encoder); ok {
			err := v.Encode(w)
			if err != nil {
				errs.HTTPErrorResponse(w, logger, errs.E(errs.Internal, err))
				return
			}

			return
		}

		// By default, we always encode the response as JSON, you can use
		// the Encoder or StatusCoder interfaces to customize the response
		err = h.encode(w, out)
		if err != nil {
			errs.HTTPErrorResponse(w, logger, errs.E(errs.Internal, err))
			return
		}
	}
}

// AcceptsJSON reports whether the client asked for a JSON response.
func AcceptsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), contentTypeJSON)
}

type Redirect struct {
	newURL string
	body   any
	r      *http.Request
}

// Encode redirects browsers, while JSON clients get the new location in the
// body so they can follow it themselves.
func (r *Redirect) Encode(w http.ResponseWriter) error {
	if AcceptsJSON(r.r) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Location", r.newURL)
		w.WriteHeader(http.StatusOK)

		if r.body != nil {
			return json.NewEncoder(w).Encode(r.body)
		}

		return json.NewEncoder(w).Encode(map[string]string{"location": r.newURL})
	}

	w.Header().Set("Content-Type", "")
	http.Redirect(w, r.r, r.newURL, http.StatusSeeOther)

	return nil
}

func NewRedirect(newURL string, r *http.Request) *Redirect {
	return &Redirect{
		newURL: newURL,
		r:      r,
	}
}

// NewRedirectWithBody answers JSON clients with body instead of the bare
// location, browsers are redirected as usual.
func NewRedirectWithBody(newURL string, body any, r *http.Request) *Redirect {
	return &Redirect{
		newURL: newURL,
		body:   body,
		r:      r,
	}
}

// Renderer executes the named page template with data.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// ViewModeler is implemented by page data that wraps its view model in
// layout data only needed for html.
type ViewModeler interface {
	ViewModel() any
}

// Page is a response that is either an html page or the JSON of its view
// model, depending on what the client accepts.
type Page struct {
	name     string
	data     any
	renderer Renderer
	r        *http.Request
}

func (p *Page) Encode(w http.ResponseWriter) error {
	if AcceptsJSON(p.r) {
		model := p.data
		if vm, ok := p.data.(ViewModeler); ok {
			model = vm.ViewModel()
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		return json.NewEncoder(w).Encode(model)
	}

	// Render into a buffer first, a failing template must not leave a half
	// written page behind
	buf := &bytes.Buffer{}

	err := p.renderer.Render(buf, p.name, p.data)
	if err != nil {
		return fmt.Errorf("rendering page %s: %w", p.name, err)
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)

	_, err = buf.WriteTo(w)

	return err
}

func NewPage(r *http.Request, renderer Renderer, name string, data any) *Page {
	return &Page{
		name:     name,
		data:     data,
		renderer: renderer,
		r:        r,
	}
}

// Empty provides a convenience struct for returning an empty response
type Empty struct{}

func (e *Empty) StatusCode() int {
	return http.StatusNoContent
}

type Accepted struct{}

func (a *Accepted) StatusCode() int {
	return http.StatusAccepted
}
