package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrRelay means the contact form endpoint did not accept the message.
var ErrRelay = errors.New("message relay failed")

type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// ContactService forwards contact form messages to a form-handling endpoint.
type ContactService struct {
	endpoint string
	client   *http.Client
}

func NewContactService(endpoint string) *ContactService {
	return &ContactService{endpoint: endpoint, client: &http.Client{Timeout: 10 * time.Second}}
}

func (s *ContactService) Send(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if err := validateInput(msg); err != nil {
		return err
	}
	if s.endpoint == "" {
		log.WithFields(log.Fields{"name": msg.Name, "email": msg.Email}).Info("contact message (no relay configured)")
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRelay, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status: %d", ErrRelay, resp.StatusCode)
	}
	return nil
}
