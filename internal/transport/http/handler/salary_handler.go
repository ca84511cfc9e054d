package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"salary-portal/internal/core/validate"
	"salary-portal/internal/feature/salary"
	"salary-portal/internal/transport/http/ez"
)

type SalaryHandler struct{ svc salary.Service }

func NewSalaryHandler(svc salary.Service) *SalaryHandler { return &SalaryHandler{svc: svc} }

// MountPublic registers the submission endpoint used by the public form.
func (h *SalaryHandler) MountPublic(g *gin.RouterGroup) {
	ez.Register(ez.New(g), ez.Action[salary.SubmitRequest, salary.SalaryResponse]{
		Method: http.MethodPost,
		Path:   "/salaries",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *salary.SubmitRequest) (salary.SalaryResponse, error) {
			out, err := h.svc.Submit(c.Request.Context(), *in)
			return out, mapError(err)
		},
	})
}

func (h *SalaryHandler) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.Register(e, ez.Action[struct{}, []salary.SalaryResponse]{
		Method: http.MethodGet,
		Path:   "/salaries",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]salary.SalaryResponse, error) {
			out, err := h.svc.List(c.Request.Context())
			return out, mapError(err)
		},
	})

	ez.Register(e, ez.Action[struct{}, salary.SalaryResponse]{
		Method: http.MethodGet,
		Path:   "/salaries/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (salary.SalaryResponse, error) {
			id, err := pathID(c)
			if err != nil {
				return salary.SalaryResponse{}, err
			}
			out, err := h.svc.Get(c.Request.Context(), id)
			return out, mapError(err)
		},
	})

	// The record is resolved before the body is decoded, so an unknown id is
	// a 404 even when the body is invalid.
	ez.Register(e, ez.Action[struct{}, salary.SalaryResponse]{
		Method: http.MethodPut,
		Path:   "/salaries/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (salary.SalaryResponse, error) {
			id, err := pathID(c)
			if err != nil {
				return salary.SalaryResponse{}, err
			}
			if _, err := h.svc.Get(c.Request.Context(), id); err != nil {
				return salary.SalaryResponse{}, mapError(err)
			}
			var in salary.UpdateRequest
			if err := ez.Bind(c, ez.BindJSON, &in); err != nil {
				return salary.SalaryResponse{}, err
			}
			out, err := h.svc.UpdateAmounts(c.Request.Context(), id, in)
			return out, mapError(err)
		},
	})
}

// pathID reads :id. Anything that is not a positive integer cannot name a record.
func pathID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, ez.NotFound(salary.ErrNotFound.Error())
	}
	return id, nil
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, salary.ErrNotFound):
		return ez.NotFound(salary.ErrNotFound.Error())
	}
	if fe, ok := validate.AsFieldErrors(err); ok {
		return ez.Invalid(fe)
	}
	return ez.Internal("salary operation failed", err)
}
