// Package subscription holds the signup and confirmation handlers
package subscription

import (
	"bitwise74/newsletter-api/internal"
	"bitwise74/newsletter-api/internal/domain"
	"bitwise74/newsletter-api/internal/service"
	"bitwise74/newsletter-api/pkg/middleware"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

func Subscribe(c *gin.Context, d *internal.Deps) {
	requestID := middleware.RequestID(c)
	log := d.Log.With(zap.String("requestID", requestID))

	var form domain.SubscribeForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		if middleware.IsBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":     "Request body size exceeds limit",
				"requestID": requestID,
			})
			return
		}

		log.Debug("Can't bind subscription form", zap.Error(err))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Both name and email are required",
			"requestID": requestID,
		})
		return
	}

	err := d.Subscriptions.Subscribe(c.Request.Context(), form)
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	if service.IsValidationError(err) {
		log.Debug("Rejected subscription form", zap.Error(err))

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if errors.Is(err, service.ErrDelivery) {
		log.Error("Failed to send confirmation email", zap.Error(err))
	} else {
		log.Error("Failed to store new subscriber", zap.Error(err))
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":     "Internal server error",
		"requestID": requestID,
	})
}
