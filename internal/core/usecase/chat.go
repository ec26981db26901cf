package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edgeledger/loanintel/internal/core/domain"
	"github.com/edgeledger/loanintel/internal/core/ports"
)

// fallbackAnswer is appended when the analyzer cannot produce a reply.
const fallbackAnswer = "I can help answer questions about loan agreements. What would you like to know?"

type DocumentChatUseCase struct {
	docs     ports.DocumentDataStore
	analyzer ports.DocumentAnalyzer
}

func NewDocumentChatUseCase(docs ports.DocumentDataStore, analyzer ports.DocumentAnalyzer) *DocumentChatUseCase {
	return &DocumentChatUseCase{docs: docs, analyzer: analyzer}
}

// Ask records the user question, queries the analyzer with the
// document's section summaries and raw text re-sent in full, and
// records the answer. Analyzer failures (including caller
// cancellation) degrade to a fixed fallback reply; the transcript
// always gains both messages.
func (uc *DocumentChatUseCase) Ask(ctx context.Context, fileID, question string) (*domain.ChatMessage, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapErrorf(domain.ErrInvalidInput, "chat", "empty question")
	}

	data, err := uc.docs.Get(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("load document data: %w", err)
	}
	if data == nil {
		return nil, domain.WrapErrorf(domain.ErrFileNotFound, "chat", "no analysis for file %s", fileID)
	}

	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		FileID:    fileID,
		Role:      domain.RoleUser,
		Content:   question,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.docs.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	answer, err := uc.analyzer.AnswerQuestion(ctx, question, data.Sections, data.RawText)
	if err != nil || strings.TrimSpace(answer) == "" {
		answer = fallbackAnswer
	}

	assistantMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		FileID:    fileID,
		Role:      domain.RoleAssistant,
		Content:   answer,
		CreatedAt: time.Now().UTC(),
	}
	// Record the fallback even when the caller cancelled mid-call, so
	// the transcript never ends on an unanswered question.
	if err := uc.docs.AppendMessage(context.WithoutCancel(ctx), assistantMsg); err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}
	return &assistantMsg, nil
}

func (uc *DocumentChatUseCase) Transcript(ctx context.Context, fileID string) ([]domain.ChatMessage, error) {
	msgs, err := uc.docs.Transcript(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}
	return msgs, nil
}
