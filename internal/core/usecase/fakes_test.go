package usecase

import (
	"bytes"
	"context"
	"io"

	"github.com/edgeledger/loanintel/internal/core/domain"
)

type statusUpdate struct {
	status   domain.FileStatus
	progress int
	errMsg   string
}

type fakeFileRepo struct {
	files       map[string]*domain.UploadedFile
	updates     []statusUpdate
	created     []*domain.UploadedFile
	linkedLoan  string
	linkedFile  string
	createErr   error
	getErr      error
	updateErr   error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{files: map[string]*domain.UploadedFile{}}
}

func (f *fakeFileRepo) Create(_ context.Context, file *domain.UploadedFile) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *file
	f.files[file.ID] = &cp
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeFileRepo) GetByID(_ context.Context, id string) (*domain.UploadedFile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	file, ok := f.files[id]
	if !ok {
		return nil, domain.WrapErrorf(domain.ErrFileNotFound, "get file", "id %s", id)
	}
	cp := *file
	return &cp, nil
}

func (f *fakeFileRepo) List(_ context.Context) ([]domain.UploadedFile, error) {
	out := make([]domain.UploadedFile, 0, len(f.files))
	for _, file := range f.files {
		out = append(out, *file)
	}
	return out, nil
}

func (f *fakeFileRepo) UpdateStatus(_ context.Context, id string, status domain.FileStatus, progress int, errMessage string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, statusUpdate{status: status, progress: progress, errMsg: errMessage})
	if file, ok := f.files[id]; ok {
		file.Status = status
		file.Progress = progress
		file.ErrorMessage = errMessage
	}
	return nil
}

func (f *fakeFileRepo) LinkLoan(_ context.Context, id, loanID string, version int) error {
	f.linkedFile = id
	f.linkedLoan = loanID
	if file, ok := f.files[id]; ok {
		file.LoanID = loanID
		file.Version = version
	}
	return nil
}

func (f *fakeFileRepo) Remove(_ context.Context, id string) error {
	delete(f.files, id)
	return nil
}

type fakeLoanStore struct {
	loans   []domain.Loan
	listErr error
	getErr  error
	upserts []*domain.Loan
}

func (s *fakeLoanStore) List(_ context.Context) ([]domain.Loan, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.Loan, len(s.loans))
	copy(out, s.loans)
	return out, nil
}

func (s *fakeLoanStore) GetByID(_ context.Context, id string) (*domain.Loan, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for i := range s.loans {
		if s.loans[i].ID == id {
			cp := s.loans[i]
			return &cp, nil
		}
	}
	return nil, domain.WrapErrorf(domain.ErrLoanNotFound, "get loan", "id %s", id)
}

func (s *fakeLoanStore) Upsert(_ context.Context, loan *domain.Loan) error {
	s.upserts = append(s.upserts, loan)
	for i := range s.loans {
		if s.loans[i].ID == loan.ID {
			s.loans[i] = *loan
			return nil
		}
	}
	s.loans = append([]domain.Loan{*loan}, s.loans...)
	return nil
}

func (s *fakeLoanStore) Remove(_ context.Context, id string) error {
	for i := range s.loans {
		if s.loans[i].ID == id {
			s.loans = append(s.loans[:i], s.loans[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeLoanStore) Clear(_ context.Context) error {
	s.loans = nil
	return nil
}

type fakeDocStore struct {
	data      map[string]*domain.DocumentData
	messages  []domain.ChatMessage
	putErr    error
	getErr    error
	appendErr error
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{data: map[string]*domain.DocumentData{}}
}

func (s *fakeDocStore) Put(_ context.Context, data *domain.DocumentData) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.data[data.FileID] = data
	return nil
}

func (s *fakeDocStore) Get(_ context.Context, fileID string) (*domain.DocumentData, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.data[fileID], nil
}

func (s *fakeDocStore) AppendMessage(_ context.Context, msg domain.ChatMessage) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.messages = append(s.messages, msg)
	return nil
}

func (s *fakeDocStore) Transcript(_ context.Context, fileID string) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range s.messages {
		if msg.FileID == fileID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (s *fakeDocStore) Clear(_ context.Context, fileID string) error {
	delete(s.data, fileID)
	kept := s.messages[:0]
	for _, msg := range s.messages {
		if msg.FileID != fileID {
			kept = append(kept, msg)
		}
	}
	s.messages = kept
	return nil
}

type fakeStorage struct {
	saved   map[string][]byte
	saveErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: map[string][]byte{}}
}

func (s *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.saved[key] = b
	return nil
}

func (s *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := s.saved[key]
	if !ok {
		return nil, domain.WrapErrorf(domain.ErrFileNotFound, "open object", "key %s", key)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *fakeStorage) Remove(_ context.Context, key string) error {
	delete(s.saved, key)
	return nil
}

type fakeQueue struct {
	published  []string
	publishErr error
}

func (q *fakeQueue) PublishDocumentIngested(_ context.Context, fileID string) error {
	if q.publishErr != nil {
		return q.publishErr
	}
	q.published = append(q.published, fileID)
	return nil
}

func (q *fakeQueue) SubscribeDocumentIngested(_ context.Context, _ func(context.Context, string) error) error {
	return nil
}

type fakeExtractor struct {
	text string
	err  error
}

func (e *fakeExtractor) Extract(_ context.Context, _ *domain.UploadedFile) (string, error) {
	return e.text, e.err
}

type fakeAnalyzer struct {
	analysis     domain.Analysis
	analyzeErr   error
	analyzeCalls int

	answer    string
	answerErr error
}

func (a *fakeAnalyzer) AnalyzeDocument(_ context.Context, _, _ string) (domain.Analysis, error) {
	a.analyzeCalls++
	if a.analyzeErr != nil {
		return domain.Analysis{}, a.analyzeErr
	}
	return a.analysis, nil
}

func (a *fakeAnalyzer) AnswerQuestion(_ context.Context, _ string, _ []domain.Section, _ string) (string, error) {
	if a.answerErr != nil {
		return "", a.answerErr
	}
	return a.answer, nil
}
