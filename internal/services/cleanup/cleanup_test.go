package cleanup

import (
	"context"
	"errors"
	"testing"

	"atelier/internal/lib/logger/handlers/slogdiscard"
	"atelier/internal/storage"
	"atelier/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	jobs []Job
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, job Job) error {
	p.jobs = append(p.jobs, job)
	return p.err
}

func TestCleaner_DeleteBlobs(t *testing.T) {
	ctx := context.Background()
	store := &mocks.BlobStore{}
	pub := &recordingPublisher{}

	store.On("Delete", mock.Anything, "a.jpg").Return(nil)
	store.On("Delete", mock.Anything, "gone.jpg").Return(storage.ErrFileNotFound)
	store.On("Delete", mock.Anything, "stuck.jpg").Return(errors.New("permission denied"))

	c := NewCleaner(slogdiscard.NewDiscardLogger(), store, pub)
	warnings := c.DeleteBlobs(ctx, "test.op", []string{"a.jpg", "", "gone.jpg", "stuck.jpg"})

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "stuck.jpg")
	assert.Contains(t, warnings[0], "permission denied")

	require.Len(t, pub.jobs, 1)
	assert.Equal(t, "stuck.jpg", pub.jobs[0].Path)
	assert.Equal(t, "test.op", pub.jobs[0].Op)
	assert.Equal(t, 0, pub.jobs[0].Attempt)

	store.AssertNumberOfCalls(t, "Delete", 3)
}

func TestCleaner_PublishFailureKeepsWarning(t *testing.T) {
	store := &mocks.BlobStore{}
	store.On("Delete", mock.Anything, "x.png").Return(errors.New("timeout"))

	pub := &recordingPublisher{err: errors.New("broker down")}
	c := NewCleaner(slogdiscard.NewDiscardLogger(), store, pub)

	warnings := c.DeleteBlobs(context.Background(), "op", []string{"x.png"})
	assert.Len(t, warnings, 1)
}

func TestLogSink_Publish(t *testing.T) {
	sink := NewLogSink(slogdiscard.NewDiscardLogger())
	assert.NoError(t, sink.Publish(context.Background(), Job{Path: "a.jpg"}))
}

func TestWorker_Handle(t *testing.T) {
	tests := []struct {
		name      string
		job       Job
		deleteErr error
		wantErr   bool
		wantGive  bool
		noCall    bool
	}{
		{name: "removed", job: Job{Path: "a.jpg"}},
		{name: "already gone", job: Job{Path: "a.jpg"}, deleteErr: storage.ErrFileNotFound},
		{name: "retry", job: Job{Path: "a.jpg", Attempt: 1}, deleteErr: errors.New("io"), wantErr: true},
		{name: "give up", job: Job{Path: "a.jpg", Attempt: 2}, deleteErr: errors.New("io"), wantErr: true, wantGive: true},
		{name: "empty path", job: Job{}, noCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mocks.BlobStore{}
			if !tt.noCall {
				store.On("Delete", mock.Anything, tt.job.Path).Return(tt.deleteErr)
			}

			w := NewWorker(slogdiscard.NewDiscardLogger(), store, 3)
			err := w.Handle(context.Background(), tt.job)

			if !tt.wantErr {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Equal(t, tt.wantGive, errors.Is(err, ErrGiveUp))
			}
			store.AssertExpectations(t)
		})
	}
}
