package subscription

import (
	"bitwise74/newsletter-api/internal"
	"bitwise74/newsletter-api/internal/service"
	"bitwise74/newsletter-api/pkg/middleware"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type confirmQuery struct {
	SubscriptionToken string `form:"subscription_token" binding:"required"`
}

func Confirm(c *gin.Context, d *internal.Deps) {
	requestID := middleware.RequestID(c)
	log := d.Log.With(zap.String("requestID", requestID))

	var q confirmQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Missing subscription_token query parameter",
			"requestID": requestID,
		})
		return
	}

	id, err := d.Subscriptions.Confirm(c.Request.Context(), q.SubscriptionToken)
	if err != nil {
		if errors.Is(err, service.ErrUnknownToken) {
			log.Debug("Confirmation with unknown token")

			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Unknown subscription token",
				"requestID": requestID,
			})
			return
		}

		log.Error("Failed to confirm subscriber", zap.Error(err))

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})
		return
	}

	log.Info("Subscriber confirmed", zap.String("subscriber_id", id))
	c.Status(http.StatusOK)
}
