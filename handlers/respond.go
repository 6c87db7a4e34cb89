package handlers

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pocketbase/pocketbase/core"

	"boilerquote/errs"
	"boilerquote/logger"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
	Details any       `json:"details,omitempty"`
}

// respondError maps err to its code's HTTP status. Server-side failures are
// logged and answered with the public message only.
func respondError(e *core.RequestEvent, log *logger.Logger, err error) error {
	typed := errs.As(err)
	if typed == nil {
		typed = errs.Wrap(errs.CodeInternal, err, "unexpected error")
	}
	meta := errs.MetadataFor(typed.Code())

	body := errorBody{Code: typed.Code(), Message: meta.PublicMessage}
	if meta.HTTPStatus < http.StatusInternalServerError {
		body.Message = typed.Message()
		body.Details = typed.Details()
	} else {
		ctx := log.WithField(e.Request.Context(), "path", e.Request.URL.Path)
		log.Error(ctx, "request failed", err)
	}
	return e.JSON(meta.HTTPStatus, body)
}

// bindRequest decodes the JSON body into dst and validates it.
func bindRequest(e *core.RequestEvent, dst any) error {
	if err := e.BindBody(dst); err != nil {
		return errs.Wrap(errs.CodeValidation, err, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError turns validator field errors into a VALIDATION error
// carrying a field -> message map.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.Wrap(errs.CodeValidation, err, "invalid request")
	}
	fields := make(map[string]string, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		fields[name] = fieldMessage(fe)
		names = append(names, name)
	}
	return errs.New(errs.CodeValidation, "invalid "+strings.Join(names, ", ")).WithDetails(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// writeDownload sends body as a file attachment.
func writeDownload(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(body)
	return err
}
