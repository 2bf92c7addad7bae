package v1

import (
	"errors"
	"net/http"

	"elitesite-backend/internal/delivery/http/response"
	"elitesite-backend/internal/domain"
	"elitesite-backend/pkg/apperror"
	"elitesite-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Contact bodies are three short text fields
const maxContactBodyBytes = 64 << 10

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

// NewContactHandler registers the relay route (public, no auth required)
func NewContactHandler(api *gin.RouterGroup, contactUC domain.ContactUsecase, mw ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
	}

	api.POST("/send-email", append(mw, handler.SendEmail)...)
}

// SendEmail godoc
// @Summary      Relay Contact Form
// @Description  Validates a contact form submission and relays it as an email to the agency inbox.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      405      {object}  map[string]string
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /send-email [post]
func (h *ContactHandler) SendEmail(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBodyBytes)

	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RecordSubmission(metrics.OutcomeInvalid)
		c.Error(apperror.BadRequest(domain.MsgMissingFields))
		return
	}

	err := h.contactUC.SendContactMessage(c.Request.Context(), &req)
	switch {
	case err == nil:
		metrics.RecordSubmission(metrics.OutcomeSent)
		response.Success(c, http.StatusOK, domain.MsgEmailSent, nil)
	case errors.Is(err, domain.ErrMissingFields):
		metrics.RecordSubmission(metrics.OutcomeInvalid)
		c.Error(apperror.BadRequest(domain.MsgMissingFields))
	case errors.Is(err, domain.ErrMailNotConfigured):
		metrics.RecordSubmission(metrics.OutcomeFailed)
		c.Error(apperror.Internal(domain.MsgServerError, err))
	default:
		metrics.RecordSubmission(metrics.OutcomeFailed)
		c.Error(apperror.Internal(domain.MsgSendFailed, err))
	}
}
