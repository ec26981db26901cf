package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

func seedDocumentData(docs *fakeDocStore) {
	docs.data["f-1"] = &domain.DocumentData{
		FileID: "f-1",
		Sections: []domain.Section{
			{Title: "Interest Rate", Summary: "SOFR + 450 bps", Status: domain.SectionOK},
		},
		RawText: "This agreement is made between...",
	}
}

func TestAskAppendsBothMessages(t *testing.T) {
	docs := newFakeDocStore()
	seedDocumentData(docs)
	uc := NewDocumentChatUseCase(docs, &fakeAnalyzer{answer: "The margin is SOFR + 450 bps."})

	reply, err := uc.Ask(context.Background(), "f-1", "What is the interest margin?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if reply.Role != domain.RoleAssistant || reply.Content != "The margin is SOFR + 450 bps." {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	transcript, err := uc.Transcript(context.Background(), "f-1")
	if err != nil {
		t.Fatalf("Transcript() error = %v", err)
	}
	if len(transcript) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(transcript))
	}
	if transcript[0].Role != domain.RoleUser || transcript[1].Role != domain.RoleAssistant {
		t.Fatalf("transcript roles = %s, %s", transcript[0].Role, transcript[1].Role)
	}
}

func TestAskFallsBackOnAnalyzerError(t *testing.T) {
	docs := newFakeDocStore()
	seedDocumentData(docs)
	uc := NewDocumentChatUseCase(docs, &fakeAnalyzer{answerErr: errors.New("upstream 503")})

	reply, err := uc.Ask(context.Background(), "f-1", "Summarize the covenants")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if reply.Content != fallbackAnswer {
		t.Fatalf("reply = %q, want fallback", reply.Content)
	}
}

func TestAskFallsBackOnEmptyAnswer(t *testing.T) {
	docs := newFakeDocStore()
	seedDocumentData(docs)
	uc := NewDocumentChatUseCase(docs, &fakeAnalyzer{answer: "   "})

	reply, err := uc.Ask(context.Background(), "f-1", "Anything?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if reply.Content != fallbackAnswer {
		t.Fatalf("reply = %q, want fallback", reply.Content)
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	docs := newFakeDocStore()
	seedDocumentData(docs)
	uc := NewDocumentChatUseCase(docs, &fakeAnalyzer{})

	_, err := uc.Ask(context.Background(), "f-1", "   ")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(docs.messages) != 0 {
		t.Fatal("rejected question must not reach the transcript")
	}
}

func TestAskUnknownFile(t *testing.T) {
	uc := NewDocumentChatUseCase(newFakeDocStore(), &fakeAnalyzer{})

	_, err := uc.Ask(context.Background(), "missing", "hello")
	if !domain.IsKind(err, domain.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}
