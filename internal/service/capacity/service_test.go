package capacity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-LessonService/internal/domain"
)

type fakeBookingRepo struct {
	seats int
	err   error
}

func (f *fakeBookingRepo) CountSeats(_ context.Context, _ int64) (int, error) {
	return f.seats, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestService_HasCapacity(t *testing.T) {
	lesson := &domain.Lesson{ID: 1, MaxCapacity: 2}

	tests := []struct {
		name  string
		seats int
		want  bool
	}{
		{"empty lesson", 0, true},
		{"one seat left", 1, true},
		{"full lesson", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeBookingRepo{seats: tt.seats}, nopLogger{})

			got, err := svc.HasCapacity(context.Background(), lesson)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_HasCapacity_RepositoryError(t *testing.T) {
	svc := NewService(&fakeBookingRepo{err: errors.New("boom")}, nopLogger{})

	_, err := svc.HasCapacity(context.Background(), &domain.Lesson{ID: 1, MaxCapacity: 2})
	assert.Error(t, err)
}
