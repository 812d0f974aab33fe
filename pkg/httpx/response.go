package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the unified JSON envelope for every API reply.
type Response struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail any    `json:"detail,omitempty"`
}

var (
	Success = success(200, "success")

	Failed         = failed(500, "request failed")
	InternalError  = failed(500, "internal error, please contact the administrator")
	BadRequest     = failed(400, "invalid request parameters")
	NotFound       = failed(404, "resource not found")
	ConfigInvalid  = failed(4101, "configuration invalid")
	RunNotFound    = failed(4102, "workflow run not found")
	UpstreamFailed = failed(5201, "upstream service call failed")
)

func failed(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		Detail: nil,
	}
}

// WithRepDetail writes a success envelope carrying detail.
func WithRepDetail(c *gin.Context, detail any) {
	c.JSON(http.StatusOK, Response{
		Code:   Success.Code,
		Msg:    Success.Msg,
		Detail: detail,
	})
}

// WithRepMsg writes a success envelope without detail.
func WithRepMsg(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Code: Success.Code,
		Msg:  Success.Msg,
	})
}

// WithRepErr writes an error envelope with extra detail.
func WithRepErr(c *gin.Context, code int, msg string, detail any) {
	c.JSON(http.StatusOK, Response{
		Code:   code,
		Msg:    msg,
		Detail: detail,
	})
}

// WithRepErrMsg writes an error envelope without detail.
func WithRepErrMsg(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code: code,
		Msg:  msg,
	})
}
