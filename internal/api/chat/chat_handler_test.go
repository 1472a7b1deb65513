package chat

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/travelica/travelica-backend/internal/types"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) HandleTurn(ctx context.Context, sessionID, message string, att *types.Attachment) (*types.ChatResponse, error) {
	args := m.Called(ctx, sessionID, message, att)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ChatResponse), args.Error(1)
}

func setupChatHandlerTest() (*HandlerImpl, *MockChatService) {
	mockService := new(MockChatService)
	store := sessions.NewCookieStore([]byte("test-secret"))
	handler := NewChatHandler(mockService, store, "travelica_session", slog.New(slog.DiscardHandler))
	return handler, mockService
}

func multipartBody(t *testing.T, message string, filename string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if message != "" {
		require.NoError(t, writer.WriteField("message", message))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHandlerImpl_Chat(t *testing.T) {
	t.Run("greeting turn returns only the response field", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()
		mockService.On("HandleTurn", mock.Anything, mock.AnythingOfType("string"), "hello", (*types.Attachment)(nil)).
			Return(&types.ChatResponse{Response: "Hi! I'm Travelica"}, nil).Once()

		body, contentType := multipartBody(t, "hello", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.Chat(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"response": "Hi! I'm Travelica"}`, rec.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("missing message returns 400 without touching the service", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()

		body, contentType := multipartBody(t, "", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.Chat(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error": "Message is required"}`, rec.Body.String())
		mockService.AssertNotCalled(t, "HandleTurn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blank message also rejected", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
			strings.NewReader("message=%20%20"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.Chat(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "HandleTurn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("first turn sets the session cookie", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()
		mockService.On("HandleTurn", mock.Anything, mock.AnythingOfType("string"), "hello", (*types.Attachment)(nil)).
			Return(&types.ChatResponse{Response: "Hi!"}, nil).Once()

		body, contentType := multipartBody(t, "hello", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.Chat(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, "travelica_session", cookies[0].Name)
	})

	t.Run("uploaded file is forwarded as an attachment", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()
		image := []byte{0xFF, 0xD8, 0xFF}
		mockService.On("HandleTurn", mock.Anything, mock.AnythingOfType("string"), "read this",
			&types.Attachment{Filename: "menu.jpg", Data: image}).
			Return(&types.ChatResponse{Response: "Sure!", OCRResponse: "Sweet soup"}, nil).Once()

		body, contentType := multipartBody(t, "read this", "menu.jpg", image)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.Chat(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"response": "Sure!", "ocr_response": "Sweet soup"}`, rec.Body.String())
		mockService.AssertExpectations(t)
	})

	t.Run("invalid image maps to 400 with the contract error body", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()
		mockService.On("HandleTurn", mock.Anything, mock.AnythingOfType("string"), "read this", (*types.Attachment)(nil)).
			Return(nil, types.ErrInvalidImage).Once()

		body, contentType := multipartBody(t, "read this", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.Chat(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error": "Invalid image file or missing file"}`, rec.Body.String())
	})

	t.Run("upstream failure maps to 502", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()
		mockService.On("HandleTurn", mock.Anything, mock.AnythingOfType("string"), "hello", (*types.Attachment)(nil)).
			Return(nil, types.ErrUpstream).Once()

		body, contentType := multipartBody(t, "hello", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.Chat(rec, req)

		require.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("session id from the cookie is reused", func(t *testing.T) {
		handler, mockService := setupChatHandlerTest()

		var firstID string
		mockService.On("HandleTurn", mock.Anything, mock.AnythingOfType("string"), "hello", (*types.Attachment)(nil)).
			Run(func(args mock.Arguments) { firstID = args.String(1) }).
			Return(&types.ChatResponse{Response: "Hi!"}, nil).Once()

		body, contentType := multipartBody(t, "hello", "", nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		handler.Chat(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotEmpty(t, firstID)

		var secondID string
		mockService.On("HandleTurn", mock.Anything, mock.AnythingOfType("string"), "hello again", (*types.Attachment)(nil)).
			Run(func(args mock.Arguments) { secondID = args.String(1) }).
			Return(&types.ChatResponse{Response: "Hi again!"}, nil).Once()

		body2, contentType2 := multipartBody(t, "hello again", "", nil)
		req2 := httptest.NewRequest(http.MethodPost, "/api/v1/chat", body2)
		req2.Header.Set("Content-Type", contentType2)
		for _, c := range rec.Result().Cookies() {
			req2.AddCookie(c)
		}
		rec2 := httptest.NewRecorder()
		handler.Chat(rec2, req2)

		require.Equal(t, http.StatusOK, rec2.Code)
		assert.Equal(t, firstID, secondID)
		mockService.AssertExpectations(t)
	})
}
