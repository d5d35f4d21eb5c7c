package api

import (
	"stunner/gateway"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the HTTP surface. The request/response endpoints are
// open (authentication happens on login/register and on the realtime
// handshake); /ws upgrades to the realtime channel.
func NewRouter(handler *Handler, gw *gateway.Gateway) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/register", handler.Register)
	r.POST("/login", handler.Login)
	r.GET("/logout", handler.Logout)

	r.GET("/userProfile/:username", handler.UserProfile)
	r.PUT("/updateprofile/:username", handler.UpdateProfile)

	r.GET("/loadconversations/:username", handler.LoadConversations)
	r.POST("/createconversation", handler.CreateConversation)
	r.POST("/joinconversation", handler.JoinConversation)
	r.DELETE("/leaveconversation/:conversationName/:username", handler.LeaveConversation)
	r.DELETE("/deleteconversation/:conversationName", handler.DeleteConversation)

	r.GET("/messages/:conversationName", handler.Messages)

	r.GET("/ws", gw.Handle)

	return r
}
