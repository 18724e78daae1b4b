package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/portfolio-site/internal/api/handler/v1/request"
	"github.com/vietanh2810/portfolio-site/internal/api/handler/v1/response"
	"github.com/vietanh2810/portfolio-site/internal/domain"
)

type ContactService interface {
	Submit(ctx context.Context, sub domain.Submission, clientAddress string) (domain.StoredMessage, error)
	ListMessages(ctx context.Context) ([]domain.StoredMessage, error)
}

type ContactHandler struct {
	svc ContactService
}

func NewContactHandler(svc ContactService) *ContactHandler {
	return &ContactHandler{
		svc: svc,
	}
}

// HandleContact godoc
// @Summary      Submit the contact form
// @Description  Validates the submission and appends it to the message store.
// @Tags         contact
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        request  body      request.ContactRequest  true  "contact form"
// @Success      200      {object}  response.ContactResponse
// @Failure      400      {object}  response.Err
// @Failure      413      {object}  response.Err
// @Failure      429      {string}  string
// @Failure      500      {object}  response.Err
// @Router       /contact [post]
func (h *ContactHandler) HandleContact(ctx *gin.Context) {
	var req request.ContactRequest
	if err := ctx.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RenderErr(ctx, response.ErrPayloadTooLarge(err))
			return
		}
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		fieldErrs := req.FieldErrors(err)
		if fieldErrs == nil {
			err = fmt.Errorf("v1.HandleContact -> req.Validate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
		response.RenderErr(ctx, response.ErrValidation(fieldErrs))
		return
	}

	if _, err := h.svc.Submit(ctx.Request.Context(), req.Submission(), ctx.ClientIP()); err != nil {
		err = fmt.Errorf("v1.HandleContact -> h.svc.Submit -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ContactResponse{
		Success: true,
		Message: response.MsgContactSuccess,
	})
}

// HandleListMessages godoc
// @Summary      List contact messages
// @Description  Returns every stored submission. Not authenticated.
// @Tags         contact
// @Produce      json
// @Success      200  {object}  response.MessagesResponse
// @Failure      500  {object}  response.Err
// @Router       /messages [get]
func (h *ContactHandler) HandleListMessages(ctx *gin.Context) {
	messages, err := h.svc.ListMessages(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListMessages -> h.svc.ListMessages -> %w", err)
		response.RenderErr(ctx, response.ErrReadMessages(err))
		return
	}

	if messages == nil {
		messages = []domain.StoredMessage{}
	}

	ctx.JSON(http.StatusOK, response.MessagesResponse{
		Success:  true,
		Messages: messages,
	})
}
