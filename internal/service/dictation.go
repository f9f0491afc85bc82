package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transcriber converts one spoken audio chunk to text
type Transcriber interface {
	Transcribe(ctx context.Context, audioStream io.Reader) (string, error)
}

// ErrDictationUnavailable is returned when no speech service is configured.
var ErrDictationUnavailable = fmt.Errorf("dictation is not available: speech service is not configured")

// ErrSessionNotFound is returned for an unknown session.
var ErrSessionNotFound = fmt.Errorf("dictation session not found")

// stoppedSessionRetention bounds how long a final transcript stays
// addressable after Stop.
const stoppedSessionRetention = 10 * time.Minute

type dictationSession struct {
	id         string
	transcript []string
	startedAt  time.Time
}

type stoppedSession struct {
	transcript string
	stoppedAt  time.Time
}

// DictationService manages voice dictation sessions. A session accumulates
// transcribed chunks into a growing transcript; stopping it yields the final
// text, which callers typically feed into a meal description analysis.
//
// The service is an optional capability: with a nil transcriber every
// operation reports ErrDictationUnavailable and the rest of the app is
// unaffected.
type DictationService struct {
	transcriber Transcriber
	mu          sync.Mutex
	sessions    map[string]*dictationSession
	stopped     map[string]stoppedSession
	logger      *zap.Logger
}

// NewDictationService creates a new DictationService. transcriber may be nil
// when no speech service is configured.
func NewDictationService(transcriber Transcriber, logger *zap.Logger) *DictationService {
	return &DictationService{
		transcriber: transcriber,
		sessions:    make(map[string]*dictationSession),
		stopped:     make(map[string]stoppedSession),
		logger:      logger,
	}
}

// Available reports whether dictation can be offered at all
func (s *DictationService) Available() bool {
	return s.transcriber != nil
}

// Start opens a new dictation session and returns its id
func (s *DictationService) Start() (string, error) {
	if !s.Available() {
		return "", ErrDictationUnavailable
	}

	session := &dictationSession{
		id:        uuid.New().String(),
		startedAt: time.Now(),
	}

	s.mu.Lock()
	for id, stopped := range s.stopped {
		if time.Since(stopped.stoppedAt) > stoppedSessionRetention {
			delete(s.stopped, id)
		}
	}
	s.sessions[session.id] = session
	s.mu.Unlock()

	s.logger.Info("dictation session started", zap.String("session_id", session.id))
	return session.id, nil
}

// AppendAudio transcribes one audio chunk and appends the recognized text to
// the session transcript. Returns the transcript so far. A chunk in which
// nothing is recognized leaves the transcript unchanged.
func (s *DictationService) AppendAudio(ctx context.Context, sessionID string, audio io.Reader) (string, error) {
	if !s.Available() {
		return "", ErrDictationUnavailable
	}

	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return "", ErrSessionNotFound
	}

	text, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio chunk: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		// Stopped while the chunk was in flight
		return "", ErrSessionNotFound
	}

	if text = strings.TrimSpace(text); text != "" {
		session.transcript = append(session.transcript, text)
	}

	s.logger.Info("dictation chunk transcribed",
		zap.String("session_id", sessionID),
		zap.Int("chunk_length", len(text)),
		zap.Int("segments", len(session.transcript)),
	)

	return strings.Join(session.transcript, " "), nil
}

// Stop closes the session and returns the final transcript. Stopping an
// already stopped session is a no-op that returns the same transcript again.
func (s *DictationService) Stop(sessionID string) (string, error) {
	if !s.Available() {
		return "", ErrDictationUnavailable
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		stopped, wasStopped := s.stopped[sessionID]
		s.mu.Unlock()
		if !wasStopped {
			return "", ErrSessionNotFound
		}
		return stopped.transcript, nil
	}
	delete(s.sessions, sessionID)

	transcript := strings.Join(session.transcript, " ")
	s.stopped[sessionID] = stoppedSession{transcript: transcript, stoppedAt: time.Now()}
	s.mu.Unlock()

	s.logger.Info("dictation session stopped",
		zap.String("session_id", sessionID),
		zap.Duration("duration", time.Since(session.startedAt)),
		zap.Int("transcript_length", len(transcript)),
	)

	return transcript, nil
}
