package create_booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-LessonService/internal/usecase/create_booking"
)

type fakeUseCase struct {
	resp *createBooking.Response
	err  error

	gotReq *createBooking.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.gotReq = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func doRequest(t *testing.T, uc *fakeUseCase, body string, withUser bool) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", bytes.NewBufferString(body))
	if withUser {
		req.Header.Set(middleware.HeaderUserID, "5")
	}

	rec := httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(handler.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_CreatesBooking(t *testing.T) {
	now := time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createBooking.Response{
		ID:        100,
		LessonID:  1,
		UserID:    5,
		Status:    "confirmed",
		BookedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}}

	rec := doRequest(t, uc, `{"lessonId": 1}`, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.gotReq)
	assert.Equal(t, int64(5), uc.gotReq.UserID)
	assert.Equal(t, int64(1), uc.gotReq.LessonID)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(100), resp.ID)
	assert.False(t, resp.Waitlisted)
}

func TestHandle_MissingUserHeader(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, `{"lessonId": 1}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_InvalidBody(t *testing.T) {
	rec := doRequest(t, &fakeUseCase{}, `{not json`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"lesson not found", createBooking.ErrLessonNotFound, http.StatusNotFound},
		{"user not found", createBooking.ErrUserNotFound, http.StatusNotFound},
		{"lesson not bookable", createBooking.ErrLessonNotBookable, http.StatusBadRequest},
		{"lesson already started", createBooking.ErrLessonAlreadyStarted, http.StatusBadRequest},
		{"duplicate booking", createBooking.ErrDuplicateBooking, http.StatusConflict},
		{"invalid input", createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"internal error", createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, &fakeUseCase{err: tt.err}, `{"lessonId": 1}`, true)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
