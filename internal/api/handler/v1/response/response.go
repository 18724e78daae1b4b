package response

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/portfolio-site/internal/domain"
)

const (
	MsgContactSuccess  = "Thank you for your message! I will get back to you soon."
	MsgContactFailure  = "Something went wrong. Please try again later."
	MsgReadMessages    = "Error reading messages"
	MsgInvalidBody     = "Invalid request body"
	MsgBodyTooLarge    = "Request body too large"
	MsgNotFound        = "Not found"
	MsgUnexpectedError = "Something went wrong!"
)

// FieldError mirrors the shape express-validator produced so the browser
// script can keep joining err.msg values.
type FieldError struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Msg      string `json:"msg"`
	Path     string `json:"path"`
	Location string `json:"location"`
}

// Err is the failure body. Err is logged for 5xx responses and never
// serialised.
type Err struct {
	HTTPStatusCode int          `json:"-"`
	Success        bool         `json:"success"`
	Message        string       `json:"message,omitempty"`
	Errors         []FieldError `json:"errors,omitempty"`
	Err            error        `json:"-"`
}

func (e *Err) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.Message,
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrValidation(errs []FieldError) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Errors:         errs,
	}
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        MsgInvalidBody,
		Err:            err,
	}
}

func ErrPayloadTooLarge(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusRequestEntityTooLarge,
		Message:        MsgBodyTooLarge,
		Err:            err,
	}
}

func ErrNotFound() *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		Message:        MsgNotFound,
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        MsgContactFailure,
		Err:            err,
	}
}

func ErrReadMessages(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        MsgReadMessages,
		Err:            err,
	}
}

type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type MessagesResponse struct {
	Success  bool                   `json:"success"`
	Messages []domain.StoredMessage `json:"messages"`
}

type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}
