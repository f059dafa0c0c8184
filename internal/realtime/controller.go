package realtime

import (
	"encoding/json"
	"io"
	"net/http"

	"exhibae/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Controller exposes change feed scopes as server-sent event streams
type Controller struct {
	hub *Hub
}

func NewController(hub *Hub) *Controller {
	return &Controller{hub: hub}
}

// StreamMyApplications streams application changes for the
// authenticated brand.
func (c *Controller) StreamMyApplications(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	c.stream(ctx, ApplicationsBrandScope(userID.(string)))
}

// StreamExhibitionApplications streams application changes for one
// exhibition (organiser view).
func (c *Controller) StreamExhibitionApplications(ctx *gin.Context) {
	c.stream(ctx, ApplicationsExhibitionScope(ctx.Param("id")))
}

// StreamConversation streams new messages in a conversation
func (c *Controller) StreamConversation(ctx *gin.Context) {
	c.stream(ctx, ConversationScope(ctx.Param("id")))
}

func (c *Controller) stream(ctx *gin.Context, scope string) {
	stream, err := c.hub.Subscribe(ctx.Request.Context(), scope)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to open change stream", nil, nil)
		return
	}
	defer stream.Close()

	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	ctx.Stream(func(w io.Writer) bool {
		event, ok := <-stream.Events()
		if !ok {
			return false
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return true
		}
		ctx.SSEvent("change", string(payload))
		return true
	})
}
