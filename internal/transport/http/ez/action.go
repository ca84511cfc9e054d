package ez

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"salary-portal/internal/core/validate"
	resp "salary-portal/internal/transport/http/response"
)

type Binder string

const (
	BindJSON Binder = "json"
	BindNone Binder = "none" // handler reads c.Param itself, and calls Bind when it needs the body
)

// AErr is the error type handlers return; Register maps it onto the wire.
type AErr struct {
	Code   int
	Msg    string
	Err    error
	Fields validate.FieldErrors
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}
func Invalid(fields validate.FieldErrors) error {
	return &AErr{Code: http.StatusUnprocessableEntity, Msg: "validation failed", Err: fields, Fields: fields}
}

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Action describes one endpoint: I is bound from the request, O is written
// as the JSON body on success.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Status  int // 200 when zero
	Handler func(c *gin.Context, in *I) (O, error)
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		if err := Bind(c, a.Binder, &in); err != nil {
			Fail(c, err)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// Bind decodes the request into in according to b. The error is ready for Fail.
func Bind(c *gin.Context, b Binder, in any) error {
	if b != BindJSON {
		return nil
	}
	// an empty body binds as the zero value; validation reports what is missing
	err := c.ShouldBindJSON(in)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return BindError(err)
}

// Fail writes err. Field errors become a bare {"field": [...]} map with 422,
// everything else uses the envelope with the matching HTTP status.
func Fail(c *gin.Context, err error) {
	if fe, ok := validate.AsFieldErrors(err); ok {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, fe)
		return
	}
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = &AErr{Code: http.StatusInternalServerError, Err: err}
	}
	if ae.Code >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, ""))
		return
	}
	c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, ae.Msg))
}

// BindError turns a decode failure into something Fail can render.
func BindError(err error) error {
	if _, ok := validate.AsFieldErrors(err); ok {
		return err
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &AErr{Code: http.StatusRequestEntityTooLarge, Msg: "request body too large", Err: err}
	}
	fe := validate.FieldErrors{}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fe.Add(typeErr.Field, validate.Label(typeErr.Field)+" has an invalid type")
		return fe
	}
	fe.Add("request", "Request body must be valid JSON")
	return fe
}
