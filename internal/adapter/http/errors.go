package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/metrics"
)

// MsgInvalidBody is returned when the request body cannot be decoded
const MsgInvalidBody = "Corpo da requisição inválido."

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Detail     string              `json:"detail,omitempty"`
	Timestamp  time.Time           `json:"timestamp"`
}

// statusFor maps a failure kind to its HTTP status
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindInvariant, domain.KindBusinessRule:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorWriter translates use case errors into responses
type errorWriter struct {
	logger      logrus.FieldLogger
	development bool
}

func (w errorWriter) write(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	metrics.ErrorsTotal.WithLabelValues(kind.String()).Inc()

	resp := ErrorResponse{
		StatusCode: status,
		Timestamp:  time.Now().UTC(),
	}

	var derr *domain.Error
	isDomain := errors.As(err, &derr)

	log := w.logger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"kind":   kind.String(),
	})

	switch {
	case kind == domain.KindInfrastructure || !isDomain:
		resp.Message = domain.MsgInternal
		if w.development {
			resp.Detail = err.Error()
		}
		log.WithError(err).Error("request failed")
	case kind == domain.KindValidation:
		resp.Message = derr.Message
		resp.Errors = derr.Fields
		log.WithField("fields", derr.Fields).Debug("request rejected by validation")
	case kind == domain.KindUpstream:
		resp.Message = derr.Message
		log.WithError(err).Warn("upstream failure")
	default:
		resp.Message = derr.Message
		log.WithField("code", derr.Code).Info(derr.Message)
	}

	c.AbortWithStatusJSON(status, resp)
}

func (w errorWriter) badRequest(c *gin.Context, err error) {
	w.logger.WithError(err).Debug("undecodable request body")
	metrics.ErrorsTotal.WithLabelValues(domain.KindValidation.String()).Inc()
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    MsgInvalidBody,
		Timestamp:  time.Now().UTC(),
	})
}
