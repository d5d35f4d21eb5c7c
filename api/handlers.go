// Package api exposes the request/response HTTP surface. Handlers convert
// domain errors to status codes; store failures become a generic 500 with
// a logged detail.
package api

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"stunner/domain"
	"stunner/errors"
	"stunner/services"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type Handler struct {
	log       *slog.Logger
	auth      services.IAuthService
	directory services.IDirectoryService
	chat      services.IChatService
}

func NewHandler(log *slog.Logger, auth services.IAuthService,
	directory services.IDirectoryService, chat services.IChatService) *Handler {
	return &Handler{log: log, auth: auth, directory: directory, chat: chat}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	token, err := h.auth.Register(req.Username, req.Password, req.Email, req.FullName)
	if stderrors.Is(err, errors.ErrInvalidRegistration) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("Error registering user", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "token": token})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	switch {
	case stderrors.Is(err, errors.ErrIncorrectUsername),
		stderrors.Is(err, errors.ErrIncorrectPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case err != nil:
		h.log.Error("Error during login", "username", req.Username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred during login."})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
	}
}

func (h *Handler) Logout(c *gin.Context) {
	// Tokens are stateless; there is no server-side session to destroy.
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *Handler) UserProfile(c *gin.Context) {
	username := c.Param("username")
	user, err := h.auth.Profile(username)
	if stderrors.Is(err, errors.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User profile not found"})
		return
	}
	if err != nil {
		h.log.Error("Error fetching user profile", "username", username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"fullName": user.FullName,
	})
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	username := c.Param("username")
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	err := h.auth.UpdateProfile(username, req.FullName, req.Email, req.Password)
	if stderrors.Is(err, errors.ErrInvalidRegistration) {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if stderrors.Is(err, errors.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		h.log.Error("Error updating user profile", "username", username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User profile updated successfully"})
}

func (h *Handler) LoadConversations(c *gin.Context) {
	username := c.Param("username")
	names, err := h.directory.ListForUser(username)
	if err != nil {
		h.log.Error("Error fetching conversations", "username", username, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch conversations"})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"conversations": names})
}

type createConversationRequest struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

func (h *Handler) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	id, err := h.directory.Create(req.Name, req.Participants)
	switch {
	case stderrors.Is(err, errors.ErrEmptyConversationName):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Conversation name cannot be empty"})
	case stderrors.Is(err, errors.ErrConversationNameSpaces):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Conversation name cannot contain spaces"})
	case stderrors.Is(err, errors.ErrConversationExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Conversation name already exists"})
	case err != nil:
		h.log.Error("Error creating conversation", "name", req.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create conversation"})
	default:
		c.JSON(http.StatusCreated, gin.H{
			"message":          "Conversation created successfully",
			"conversationName": id,
		})
	}
}

type joinConversationRequest struct {
	ConversationName string `json:"conversationName"`
	Username         string `json:"username"`
}

func (h *Handler) JoinConversation(c *gin.Context) {
	var req joinConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	err := h.directory.Join(req.ConversationName, req.Username)
	switch {
	case stderrors.Is(err, errors.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Conversation not found"})
	case stderrors.Is(err, errors.ErrAlreadyParticipant):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You are already a participant in this conversation"})
	case err != nil:
		h.log.Error("Error joining conversation", "name", req.ConversationName, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to join conversation"})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message":          "Joined conversation successfully",
			"conversationName": req.ConversationName,
		})
	}
}

func (h *Handler) LeaveConversation(c *gin.Context) {
	name := c.Param("conversationName")
	username := c.Param("username")

	err := h.directory.Leave(name, username)
	switch {
	case stderrors.Is(err, errors.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Conversation not found"})
	case stderrors.Is(err, errors.ErrNotParticipant):
		c.JSON(http.StatusBadRequest, gin.H{"message": "You are not a participant in this conversation"})
	case err != nil:
		h.log.Error("Error leaving conversation", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to leave conversation"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Left conversation successfully"})
	}
}

func (h *Handler) DeleteConversation(c *gin.Context) {
	name := c.Param("conversationName")
	if err := h.directory.Delete(name); err != nil {
		h.log.Error("Error deleting conversation", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}

type messageResponse struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	Sender           string `json:"sender"`
	ConversationName string `json:"conversationName"`
	At               string `json:"at"`
}

func (h *Handler) Messages(c *gin.Context) {
	name := c.Param("conversationName")
	messages, err := h.chat.GetMessages(domain.GetMessagesCommand{ConversationName: name})
	if err != nil {
		h.log.Error("Error fetching messages", "conversation", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": toMessageResponses(messages)})
}

func toMessageResponses(messages []domain.Message) []messageResponse {
	return lo.Map(messages, func(m domain.Message, _ int) messageResponse {
		return messageResponse{
			ID:               m.ID.String(),
			Text:             m.Text,
			Sender:           m.Sender,
			ConversationName: m.ConversationName,
			At:               m.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		}
	})
}
