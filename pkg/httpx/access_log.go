package httpx

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// AccessLogFormat renders one access log line per request.
func AccessLogFormat(param gin.LogFormatterParams) string {
	return fmt.Sprintf("%s %s [%s %s] %s %s %v %s %s\n",
		param.TimeStamp.Format("2006/01/02 15:04:05"),
		param.Latency,
		param.Method,
		param.Path,
		param.ClientIP,
		param.Request.Proto,
		param.StatusCode,
		param.Request.UserAgent(),
		param.ErrorMessage,
	)
}
