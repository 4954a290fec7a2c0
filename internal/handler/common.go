package handler

import (
	"backend/pkg/apperror"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// fail writes an error response, mapping application errors onto their HTTP
// status codes (validation 400, not found 404, duplicate 409, insufficient
// stock 422) and everything else onto 500.
func fail(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	c.JSON(appErr.Code, response.Error(appErr.Code, appErr.Message))
}
