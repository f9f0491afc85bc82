package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SpeechServiceClient wraps the Azure Speech Service REST API for
// speech-to-text. It backs the dictation feature: when the service is not
// configured the feature is simply absent, never an error.
type SpeechServiceClient struct {
	subscriptionKey string
	region          string
	language        string
	endpoint        string // overridable for tests
	httpClient      *http.Client
	logger          *zap.Logger
}

// NewSpeechServiceClient creates a new Azure Speech Service client.
// language is a BCP-47 tag such as "fr-FR".
func NewSpeechServiceClient(subscriptionKey, region, language string, logger *zap.Logger) (*SpeechServiceClient, error) {
	if subscriptionKey == "" || region == "" {
		return nil, fmt.Errorf("subscriptionKey and region are required")
	}
	if language == "" {
		language = "fr-FR"
	}

	endpoint := fmt.Sprintf("https://%s.stt.speech.microsoft.com", region)

	return &SpeechServiceClient{
		subscriptionKey: subscriptionKey,
		region:          region,
		language:        language,
		endpoint:        endpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}, nil
}

// Transcribe converts one WAV audio chunk to text
func (c *SpeechServiceClient) Transcribe(ctx context.Context, audioStream io.Reader) (string, error) {
	c.logger.Info("starting speech-to-text transcription", zap.String("language", c.language))

	audioData, err := io.ReadAll(audioStream)
	if err != nil {
		return "", fmt.Errorf("failed to read audio stream: %w", err)
	}

	url := fmt.Sprintf("%s/speech/recognition/conversation/cognitiveservices/v1?language=%s", c.endpoint, c.language)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(audioData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "audio/wav; codecs=audio/pcm; samplerate=16000")
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("speech-to-text request failed", zap.Error(err))
		return "", fmt.Errorf("speech-to-text request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("speech-to-text request failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(body)),
		)
		return "", fmt.Errorf("speech-to-text request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		RecognitionStatus string `json:"RecognitionStatus"`
		DisplayText       string `json:"DisplayText"`
		Offset            int64  `json:"Offset"`
		Duration          int64  `json:"Duration"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Info("speech-to-text transcription completed",
		zap.String("status", result.RecognitionStatus),
		zap.Duration("processing_time", time.Since(startTime)),
		zap.Int("audio_size_bytes", len(audioData)),
	)

	if result.RecognitionStatus != "Success" {
		return "", fmt.Errorf("recognition failed with status: %s", result.RecognitionStatus)
	}

	return result.DisplayText, nil
}
