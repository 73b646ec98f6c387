package response

import (
	"github.com/gin-gonic/gin"
)

// Message is the single element shape of both errors and info arrays.
type Message struct {
	Msg string `json:"msg"`
}

func toMessages(msgs []string) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, Message{Msg: m})
	}
	return out
}

// Errors writes a failure body: {"errors": [{"msg": ...}, ...]}.
func Errors(c *gin.Context, status int, msgs ...string) {
	c.JSON(status, gin.H{"errors": toMessages(msgs)})
}

// ErrorList writes a failure body from prebuilt messages.
func ErrorList(c *gin.Context, status int, msgs []Message) {
	c.JSON(status, gin.H{"errors": msgs})
}

// Info writes a success body that is not a resource: {"info": [{"msg": ...}]}.
func Info(c *gin.Context, status int, msgs ...string) {
	c.JSON(status, gin.H{"info": toMessages(msgs)})
}

// AbortErrors is Errors for middleware, stopping the handler chain.
func AbortErrors(c *gin.Context, status int, msgs ...string) {
	c.AbortWithStatusJSON(status, gin.H{"errors": toMessages(msgs)})
}
