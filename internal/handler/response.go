package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdularham/clinic-api/pkg/errors"
)

// Success writes the uniform 200 envelope with success set to true.
func Success(c *gin.Context, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

// Failure writes the failure envelope. Business failures are still HTTP
// 200; only the guard layer produces non-200 statuses. Validation errors
// carry their field list, store errors surface only a generic message.
func Failure(c *gin.Context, err error) {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		e = errors.Store(err)
	}

	body := gin.H{
		"message": e.Message,
		"success": false,
	}
	if len(e.Fields) > 0 {
		body["errors"] = e.Fields
	}
	c.JSON(http.StatusOK, body)
}
