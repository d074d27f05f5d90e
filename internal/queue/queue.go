// Package queue delivers resume parse jobs to background workers, in process or over AMQP.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrClosed is returned when enqueuing on a closed dispatcher.
var ErrClosed = errors.New("dispatcher closed")

// ParseJob asks a worker to parse one uploaded resume version.
type ParseJob struct {
	ResumeVersionID uuid.UUID `json:"resume_version_id"`
}

// Handler processes one job.
type Handler func(ctx context.Context, job ParseJob) error

// Dispatcher hands jobs to workers.
type Dispatcher interface {
	Enqueue(ctx context.Context, job ParseJob) error
	Close() error
}

// Encode serializes a job message.
func Encode(job ParseJob) ([]byte, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job: %w", err)
	}
	return body, nil
}

// Decode parses a job message.
func Decode(body []byte) (ParseJob, error) {
	var job ParseJob
	if err := json.Unmarshal(body, &job); err != nil {
		return ParseJob{}, fmt.Errorf("failed to decode job: %w", err)
	}
	if job.ResumeVersionID == uuid.Nil {
		return ParseJob{}, errors.New("failed to decode job: missing resume_version_id")
	}
	return job, nil
}
