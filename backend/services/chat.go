package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"learnpath/backend/config"
	"learnpath/backend/llm"
	"learnpath/backend/metrics"
	"learnpath/backend/utils"
)

const chatSystemPrompt = "You are a helpful AI learning assistant. Provide concise, practical advice about courses, learning strategies, programming, and career development. Keep responses under 200 words."

type ChatService struct {
	cred      config.Credential
	completer llm.Completer
	timeout   time.Duration
	log       *utils.Logger
}

func NewChatService(cred config.Credential, completer llm.Completer, timeout time.Duration, log *utils.Logger) *ChatService {
	return &ChatService{
		cred:      cred,
		completer: completer,
		timeout:   timeout,
		log:       log.With("service", "ChatService"),
	}
}

func (s *ChatService) Live() bool {
	return s.completer != nil && s.cred.Usable()
}

// Reply answers a learner's question. It always produces text: provider failures and
// empty completions are answered with canned advice that quotes the message.
func (s *ChatService) Reply(ctx context.Context, message string) string {
	message = strings.TrimSpace(message)
	if !s.Live() {
		metrics.ChatReplies.WithLabelValues("demo").Inc()
		return demoChatReply(message)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.completer.Complete(ctx, llm.Request{
		System:      chatSystemPrompt,
		User:        message,
		Temperature: 0.7,
		MaxTokens:   300,
	})
	metrics.ObserveProvider("completion", start, err)
	switch {
	case errors.Is(err, llm.ErrEmptyCompletion):
		metrics.ChatReplies.WithLabelValues("canned").Inc()
		return emptyChatReply(message)
	case err != nil:
		s.log.Warn("chat completion failed", "error", err)
		metrics.ChatReplies.WithLabelValues("canned").Inc()
		return failedChatReply(message)
	}
	metrics.ChatReplies.WithLabelValues("live").Inc()
	return reply
}
