// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package relay delivers chat messages to the backend in the background.
// The UI never blocks on the network: messages are enqueued locally and
// workers push them out with retries. Delivery failures are logged and
// the local copy stays authoritative.
package relay

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mangaba/internal/backend"
	"github.com/jeranaias/mangaba/internal/logging"
	"github.com/jeranaias/mangaba/internal/store"
)

// =============================================================================
// JOB
// =============================================================================

// Status is the delivery state of one job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusDelivered Status = "delivered"
	StatusFailed    Status = "failed"
	StatusDropped   Status = "dropped"
)

// Job is one message awaiting delivery.
type Job struct {
	ID         string
	ChatID     string
	Req        backend.PostMessageRequest
	Attempts   int
	Status     Status
	EnqueuedAt time.Time
	LastErr    error
}

// Poster is the backend surface the relay needs.
type Poster interface {
	HasCredential() bool
	PostMessage(ctx context.Context, chatID string, req backend.PostMessageRequest) (*backend.MessageDTO, error)
}

// =============================================================================
// RELAY
// =============================================================================

const (
	defaultWorkers     = 2
	defaultQueueSize   = 64
	defaultMaxAttempts = 3
	defaultSendTimeout = 15 * time.Second
	retryDelay         = 2 * time.Second
)

// Relay runs the delivery workers.
type Relay struct {
	poster Poster
	logs   *logging.Ring

	jobs    chan *Job
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	stopped atomic.Bool

	maxAttempts int
	sendTimeout time.Duration

	mu        sync.Mutex
	delivered int
	failed    int
	dropped   int
}

// Options tunes the relay. Zero values get defaults.
type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	SendTimeout time.Duration
}

// New creates a relay and starts its workers.
func New(poster Poster, logs *logging.Ring, opts Options) *Relay {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = defaultSendTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Relay{
		poster:      poster,
		logs:        logs,
		jobs:        make(chan *Job, opts.QueueSize),
		cancel:      cancel,
		maxAttempts: opts.MaxAttempts,
		sendTimeout: opts.SendTimeout,
	}
	for i := 0; i < opts.Workers; i++ {
		r.wg.Add(1)
		go r.worker(ctx)
	}
	return r
}

// Enqueue queues one message for delivery. Returns false when the
// message cannot be relayed: no credential, a local-only chat, a full
// queue, or a stopped relay.
func (r *Relay) Enqueue(chatID string, req backend.PostMessageRequest) bool {
	if r.stopped.Load() {
		return false
	}
	if r.poster == nil || !r.poster.HasCredential() {
		return false
	}
	if store.IsLocalChatID(chatID) {
		return false
	}

	job := &Job{
		ID:         "relay_" + uuid.NewString(),
		ChatID:     chatID,
		Req:        req,
		Status:     StatusQueued,
		EnqueuedAt: time.Now(),
	}
	select {
	case r.jobs <- job:
		return true
	default:
		// Queue full: drop rather than block the UI.
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
		if r.logs != nil {
			r.logs.Log(logging.LevelWarn, "relay", "queue full, dropped message for "+chatID)
		}
		return false
	}
}

// Stop shuts the workers down. Queued jobs are abandoned; the local
// store already holds every message.
func (r *Relay) Stop() {
	if r.stopped.Swap(true) {
		return
	}
	r.cancel()
	r.wg.Wait()
}

// Stats returns delivery counters.
func (r *Relay) Stats() (delivered, failed, dropped int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.delivered, r.failed, r.dropped
}

// =============================================================================
// WORKERS
// =============================================================================

func (r *Relay) worker(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-r.jobs:
			r.deliver(ctx, job)
		}
	}
}

func (r *Relay) deliver(ctx context.Context, job *Job) {
	for job.Attempts < r.maxAttempts {
		job.Attempts++

		sendCtx, cancel := context.WithTimeout(ctx, r.sendTimeout)
		_, err := r.poster.PostMessage(sendCtx, job.ChatID, job.Req)
		cancel()

		if err == nil {
			job.Status = StatusDelivered
			r.mu.Lock()
			r.delivered++
			r.mu.Unlock()
			return
		}
		job.LastErr = err

		if job.Attempts >= r.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}

	job.Status = StatusFailed
	r.mu.Lock()
	r.failed++
	r.mu.Unlock()
	if r.logs != nil {
		r.logs.Errorf("relay", "delivery failed for chat %s after %d attempts: %v",
			job.ChatID, job.Attempts, job.LastErr)
	}
}
