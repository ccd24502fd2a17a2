package rest

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/gin-gonic/gin"
)

// respondError writes {"error": message}. Domain failures are client
// precondition errors (412), anything else is a server error (500).
func (h *Handler) respondError(c *gin.Context, err error) {
	msg := common.Message(err)
	h.logger.Error(c.Request.Context(), msg, "path", c.Request.URL.Path)

	status := http.StatusInternalServerError
	if common.IsDomain(err) {
		status = http.StatusPreconditionFailed
	}
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) recover(c *gin.Context, recovered any) {
	h.logger.Error(c.Request.Context(), "panic recovered", "panic", fmt.Sprint(recovered))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": common.ErrorInternal.Error()})
}
