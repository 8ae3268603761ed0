package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/phrazzld/courier/internal/domain"
	"github.com/phrazzld/courier/internal/events"
	"github.com/phrazzld/courier/internal/generation"
	"github.com/phrazzld/courier/internal/mocks"
	"github.com/phrazzld/courier/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const requestID = "3d5e7f1a-2b4c-4d6e-8f0a-1b2c3d4e5f60"

// capturePublish records the result payload of every published event.
func capturePublish(d *mocks.MockDispatcher, err error) *[]domain.UsernameResult {
	var results []domain.UsernameResult
	d.OnTopic(domain.TopicUsernameGenerated.Name(), err).Run(func(args mock.Arguments) {
		var r domain.UsernameResult
		if json.Unmarshal(args.Get(1).(*events.Event).Payload, &r) == nil {
			results = append(results, r)
		}
	})
	return &results
}

func TestUsernameWorker_Success(t *testing.T) {
	log, buf := logger.GetTestLogger(t)
	d := &mocks.MockDispatcher{}
	results := capturePublish(d, nil)

	gen := &mocks.MockGenerator{}
	gen.On("GenerateUsernames", mock.Anything, "gaming", []string{"pixel"}, 2).
		Return([]string{"pixel_pro", "gg.wp"}, nil)

	w, err := NewUsernameWorker(d, gen, log)
	require.NoError(t, err)

	err = w.Handle(context.Background(), domain.UsernameTask{
		Theme: "gaming", Keywords: []string{"pixel"}, Count: 2, RequestID: requestID,
	})
	require.NoError(t, err)

	require.Len(t, *results, 1)
	assert.Equal(t, domain.UsernameResult{
		RequestID: requestID,
		Success:   true,
		Theme:     "gaming",
		Keywords:  []string{"pixel"},
		Usernames: []string{"pixel_pro", "gg.wp"},
	}, (*results)[0])

	assert.Len(t, buf.EntriesWithMessage(t, "Processing username generation request"), 1)
	gen.AssertExpectations(t)
}

func TestUsernameWorker_NotConfigured(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	d := &mocks.MockDispatcher{}
	results := capturePublish(d, nil)

	w, err := NewUsernameWorker(d, generation.Unconfigured{}, log)
	require.NoError(t, err)

	require.NoError(t, w.Handle(context.Background(), domain.UsernameTask{Theme: "x", Count: 1, RequestID: requestID}))

	require.Len(t, *results, 1)
	got := (*results)[0]
	assert.False(t, got.Success)
	assert.Equal(t, "GEMINI_API_KEY not configured", got.Error)
	assert.Equal(t, []string{}, got.Usernames)
	assert.Equal(t, requestID, got.RequestID)
}

func TestUsernameWorker_GeneratorError(t *testing.T) {
	log, buf := logger.GetTestLogger(t)
	d := &mocks.MockDispatcher{}
	results := capturePublish(d, nil)

	gen := generation.GeneratorFunc(func(context.Context, string, []string, int) ([]string, error) {
		return nil, errors.New("quota exhausted")
	})
	w, err := NewUsernameWorker(d, gen, log)
	require.NoError(t, err)

	require.NoError(t, w.Handle(context.Background(), domain.UsernameTask{Theme: "x", Count: 1, RequestID: requestID}))

	require.Len(t, *results, 1)
	assert.False(t, (*results)[0].Success)
	assert.Equal(t, "quota exhausted", (*results)[0].Error)
	assert.Len(t, buf.EntriesWithMessage(t, "username generation failed"), 1)
}

func TestUsernameWorker_EmitFailure(t *testing.T) {
	log, buf := logger.GetTestLogger(t)
	d := &mocks.MockDispatcher{}
	capturePublish(d, events.ErrNotAccepted)

	gen := generation.GeneratorFunc(func(context.Context, string, []string, int) ([]string, error) {
		return []string{"a"}, nil
	})
	w, err := NewUsernameWorker(d, gen, log)
	require.NoError(t, err)

	err = w.Handle(context.Background(), domain.UsernameTask{Theme: "x", Count: 1, RequestID: requestID})
	assert.ErrorIs(t, err, events.ErrNotAccepted)
	assert.Len(t, buf.EntriesWithMessage(t, "failed to emit username result"), 1)
}

func TestUsernameWorker_MissingRequestID(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	d := &mocks.MockDispatcher{}
	gen := &mocks.MockGenerator{}

	w, err := NewUsernameWorker(d, gen, log)
	require.NoError(t, err)

	err = w.Handle(context.Background(), domain.UsernameTask{Theme: "x", Count: 1})
	assert.ErrorIs(t, err, domain.ErrEmptyRequestID)
	assert.ErrorIs(t, err, events.ErrMalformedPayload, "a task without an id can never succeed")
	gen.AssertNotCalled(t, "GenerateUsernames", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	d.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestUsernameWorker_Subscribe(t *testing.T) {
	log, _ := logger.GetTestLogger(t)
	d := &mocks.MockDispatcher{}
	d.On("Subscribe", "username.requested", UsernameSubscriberName, mock.Anything).Return(nil)

	w, err := NewUsernameWorker(d, generation.Unconfigured{}, log)
	require.NoError(t, err)
	require.NoError(t, w.Subscribe())
	d.AssertExpectations(t)
}

func TestNewUsernameWorker_Validation(t *testing.T) {
	_, err := NewUsernameWorker(nil, generation.Unconfigured{}, nil)
	assert.Error(t, err)

	_, err = NewUsernameWorker(&mocks.MockDispatcher{}, nil, nil)
	assert.Error(t, err)
}
