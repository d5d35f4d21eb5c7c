package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"stunner/domain"
	"stunner/errors"
	"stunner/gateway"
	"stunner/mocks"
	"stunner/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fixture struct {
	auth      *mocks.MockIAuthService
	directory *mocks.MockIDirectoryService
	chat      *mocks.MockIChatService
	router    http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	log := logs.GetLoggerFromLevel(slog.LevelError)
	f := &fixture{
		auth:      mocks.NewMockIAuthService(ctrl),
		directory: mocks.NewMockIDirectoryService(ctrl),
		chat:      mocks.NewMockIChatService(ctrl),
	}
	handler := NewHandler(log, f.auth, f.directory, f.chat)
	f.router = NewRouter(handler, gateway.NewGateway(log, f.chat, 8))
	return f
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func TestHandler_Login(t *testing.T) {
	t.Run("should return a token on success", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.auth.EXPECT().Login("alice", "Password123!").
			Return(services.Token("jwt-token"), nil).Times(1)

		recorder := f.do(http.MethodPost, "/login",
			gin.H{"username": "alice", "password": "Password123!"})

		req.Equal(http.StatusOK, recorder.Code)
		payload := decode(t, recorder)
		req.Equal("Login successful", payload["message"])
		req.Equal("jwt-token", payload["token"])
	})

	t.Run("should return 401 on unknown username", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.auth.EXPECT().Login("ghost", gomock.Any()).
			Return(services.Token(""), errors.ErrIncorrectUsername).Times(1)

		recorder := f.do(http.MethodPost, "/login",
			gin.H{"username": "ghost", "password": "whatever"})

		req.Equal(http.StatusUnauthorized, recorder.Code)
		req.Equal("Incorrect username.", decode(t, recorder)["message"])
	})

	t.Run("should return 401 on wrong password", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.auth.EXPECT().Login("alice", gomock.Any()).
			Return(services.Token(""), errors.ErrIncorrectPassword).Times(1)

		recorder := f.do(http.MethodPost, "/login",
			gin.H{"username": "alice", "password": "wrong"})

		req.Equal(http.StatusUnauthorized, recorder.Code)
		req.Equal("Incorrect password.", decode(t, recorder)["message"])
	})

	t.Run("should return 500 on store failure", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.auth.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(services.Token(""), fmt.Errorf("badger down")).Times(1)

		recorder := f.do(http.MethodPost, "/login",
			gin.H{"username": "alice", "password": "Password123!"})

		req.Equal(http.StatusInternalServerError, recorder.Code)
	})
}

func TestHandler_Register(t *testing.T) {
	t.Run("should return 201 and a token", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.auth.EXPECT().
			Register("alice", "Password123!", "alice@example.com", "Alice").
			Return(services.Token("jwt-token"), nil).Times(1)

		recorder := f.do(http.MethodPost, "/register", gin.H{
			"username": "alice",
			"password": "Password123!",
			"email":    "alice@example.com",
			"fullName": "Alice",
		})

		req.Equal(http.StatusCreated, recorder.Code)
		req.Equal("jwt-token", decode(t, recorder)["token"])
	})

	t.Run("should return 400 on invalid input", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.auth.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(services.Token(""), errors.ErrInvalidRegistration).Times(1)

		recorder := f.do(http.MethodPost, "/register", gin.H{"username": "a"})

		req.Equal(http.StatusBadRequest, recorder.Code)
	})
}

func TestHandler_CreateConversation(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{"empty name", errors.ErrEmptyConversationName,
			http.StatusBadRequest, "Conversation name cannot be empty"},
		{"name with spaces", errors.ErrConversationNameSpaces,
			http.StatusBadRequest, "Conversation name cannot contain spaces"},
		{"duplicate name", errors.ErrConversationExists,
			http.StatusBadRequest, "Conversation name already exists"},
	}

	for _, tc := range tests {
		t.Run("should reject "+tc.name, func(t *testing.T) {
			req := require.New(t)
			f := newFixture(t)

			f.directory.EXPECT().Create(gomock.Any(), gomock.Any()).
				Return("", tc.svcErr).Times(1)

			recorder := f.do(http.MethodPost, "/createconversation",
				gin.H{"name": "whatever", "participants": []string{"alice"}})

			req.Equal(tc.wantCode, recorder.Code)
			req.Equal(tc.wantMsg, decode(t, recorder)["message"])
		})
	}

	t.Run("should return 201 on success", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.directory.EXPECT().Create("team-x", []string{"alice"}).
			Return("conv-uuid", nil).Times(1)

		recorder := f.do(http.MethodPost, "/createconversation",
			gin.H{"name": "team-x", "participants": []string{"alice"}})

		req.Equal(http.StatusCreated, recorder.Code)
		req.Equal("conv-uuid", decode(t, recorder)["conversationName"])
	})
}

func TestHandler_JoinLeaveConversation(t *testing.T) {
	t.Run("should join successfully", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.directory.EXPECT().Join("team-x", "bob").Return(nil).Times(1)

		recorder := f.do(http.MethodPost, "/joinconversation",
			gin.H{"conversationName": "team-x", "username": "bob"})

		req.Equal(http.StatusOK, recorder.Code)
	})

	t.Run("should return 404 joining an unknown conversation", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.directory.EXPECT().Join("ghost", "bob").
			Return(errors.ErrConversationNotFound).Times(1)

		recorder := f.do(http.MethodPost, "/joinconversation",
			gin.H{"conversationName": "ghost", "username": "bob"})

		req.Equal(http.StatusNotFound, recorder.Code)
	})

	t.Run("should return 400 joining twice", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.directory.EXPECT().Join("team-x", "alice").
			Return(errors.ErrAlreadyParticipant).Times(1)

		recorder := f.do(http.MethodPost, "/joinconversation",
			gin.H{"conversationName": "team-x", "username": "alice"})

		req.Equal(http.StatusBadRequest, recorder.Code)
		req.Equal("You are already a participant in this conversation",
			decode(t, recorder)["message"])
	})

	t.Run("should leave successfully", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.directory.EXPECT().Leave("team-x", "bob").Return(nil).Times(1)

		recorder := f.do(http.MethodDelete, "/leaveconversation/team-x/bob", nil)

		req.Equal(http.StatusOK, recorder.Code)
	})

	t.Run("should return 400 leaving without being a participant", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.directory.EXPECT().Leave("team-x", "mallory").
			Return(errors.ErrNotParticipant).Times(1)

		recorder := f.do(http.MethodDelete, "/leaveconversation/team-x/mallory", nil)

		req.Equal(http.StatusBadRequest, recorder.Code)
	})
}

func TestHandler_DeleteConversation(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.directory.EXPECT().Delete("team-x").Return(nil).Times(1)

	recorder := f.do(http.MethodDelete, "/deleteconversation/team-x", nil)

	req.Equal(http.StatusOK, recorder.Code)
	req.Equal("Conversation deleted successfully", decode(t, recorder)["message"])
}

func TestHandler_LoadConversations(t *testing.T) {
	t.Run("should list conversation names", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.directory.EXPECT().ListForUser("alice").
			Return([]string{"team-x", "team-y"}, nil).Times(1)

		recorder := f.do(http.MethodGet, "/loadconversations/alice", nil)

		req.Equal(http.StatusOK, recorder.Code)
		req.Equal([]any{"team-x", "team-y"}, decode(t, recorder)["conversations"])
	})

	t.Run("should return an empty array, never null", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.directory.EXPECT().ListForUser("nobody").Return(nil, nil).Times(1)

		recorder := f.do(http.MethodGet, "/loadconversations/nobody", nil)

		req.Equal(http.StatusOK, recorder.Code)
		req.Equal([]any{}, decode(t, recorder)["conversations"])
	})
}

func TestHandler_UserProfile(t *testing.T) {
	t.Run("should return the profile", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.auth.EXPECT().Profile("alice").Return(domain.User{
			ID:       "uuid-123",
			Username: "alice",
			Email:    "alice@example.com",
			FullName: "Alice",
		}, nil).Times(1)

		recorder := f.do(http.MethodGet, "/userProfile/alice", nil)

		req.Equal(http.StatusOK, recorder.Code)
		payload := decode(t, recorder)
		req.Equal("alice", payload["username"])
		req.Equal("alice@example.com", payload["email"])
	})

	t.Run("should return 404 for an unknown user", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.auth.EXPECT().Profile("ghost").
			Return(domain.User{}, errors.ErrUserNotFound).Times(1)

		recorder := f.do(http.MethodGet, "/userProfile/ghost", nil)

		req.Equal(http.StatusNotFound, recorder.Code)
	})
}

func TestHandler_UpdateProfile(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.auth.EXPECT().
		UpdateProfile("alice", "Alice L.", "new@example.com", "").
		Return(nil).Times(1)

	recorder := f.do(http.MethodPut, "/updateprofile/alice",
		gin.H{"fullName": "Alice L.", "email": "new@example.com"})

	req.Equal(http.StatusOK, recorder.Code)
}

func TestHandler_Messages(t *testing.T) {
	t.Run("should return the stored history", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		f.chat.EXPECT().
			GetMessages(domain.GetMessagesCommand{ConversationName: "team-x"}).
			Return([]domain.Message{{
				ID:               uuid.MustParse("8b9a2c0e-1111-4222-8333-444455556666"),
				Text:             "hi",
				Sender:           "bob",
				ConversationName: "team-x",
				CreatedAt:        at,
			}}, nil).Times(1)

		recorder := f.do(http.MethodGet, "/messages/team-x", nil)

		req.Equal(http.StatusOK, recorder.Code)
		payload := decode(t, recorder)
		messages := payload["messages"].([]any)
		req.Len(messages, 1)
		first := messages[0].(map[string]any)
		req.Equal("hi", first["text"])
		req.Equal("bob", first["sender"])
		req.Equal("team-x", first["conversationName"])
	})

	t.Run("should return an empty array for a silent conversation", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		f.chat.EXPECT().
			GetMessages(gomock.Any()).
			Return(nil, nil).Times(1)

		recorder := f.do(http.MethodGet, "/messages/empty", nil)

		req.Equal(http.StatusOK, recorder.Code)
		req.Equal([]any{}, decode(t, recorder)["messages"])
	})
}

func TestHandler_Logout(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	recorder := f.do(http.MethodGet, "/logout", nil)

	req.Equal(http.StatusOK, recorder.Code)
	req.Equal("Logout successful", decode(t, recorder)["message"])
}
