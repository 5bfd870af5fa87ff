package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// ListMeta describes a collection payload.
type ListMeta struct {
	Count int `json:"count"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
}

func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// OK writes a success envelope.
func OK[T any](ctx *gin.Context, status int, data T, message string) {
	res := Success(ctx, status, data, message, nil)
	ctx.JSON(res.Status, res)
}

// List writes a success envelope with a count in meta.
func List[T any](ctx *gin.Context, items []T, message string) {
	if items == nil {
		items = []T{}
	}
	res := Success(ctx, http.StatusOK, items, message, ListMeta{Count: len(items)})
	ctx.JSON(res.Status, res)
}

// Fail writes an error envelope.
func Fail(ctx *gin.Context, status int, message string, err interface{}) {
	res := Error[any](ctx, status, message, err)
	ctx.JSON(res.Status, res)
}

// Abort writes an error envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, err interface{}) {
	res := Error[any](ctx, status, message, err)
	ctx.AbortWithStatusJSON(res.Status, res)
}
