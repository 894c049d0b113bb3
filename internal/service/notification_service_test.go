package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/eyadahmed25/customer-management/internal/clients"
	"github.com/eyadahmed25/customer-management/internal/events"
)

type fakeEmailSender struct {
	mu     sync.Mutex
	result clients.EmailResult
	sent   chan clients.EmailRequest
}

func newFakeEmailSender(result clients.EmailResult) *fakeEmailSender {
	return &fakeEmailSender{result: result, sent: make(chan clients.EmailRequest, 8)}
}

func (s *fakeEmailSender) SendWelcome(ctx context.Context, toEmail, firstName string) clients.EmailResult {
	return s.Send(ctx, clients.EmailRequest{ToEmail: toEmail, ToName: firstName})
}

func (s *fakeEmailSender) Send(_ context.Context, request clients.EmailRequest) clients.EmailResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent <- request
	return s.result
}

func (s *fakeEmailSender) waitForSend(t *testing.T) clients.EmailRequest {
	t.Helper()
	select {
	case req := <-s.sent:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for welcome email attempt")
		return clients.EmailRequest{}
	}
}

func newNotificationFixture(t *testing.T, emailResult clients.EmailResult) (CustomerService, *fakeCustomerRepo, *fakeEmailSender, events.Dispatcher) {
	t.Helper()
	repo := newFakeCustomerRepo()
	sender := newFakeEmailSender(emailResult)
	dispatcher := events.NewAsyncDispatcher(8, zap.NewNop())
	t.Cleanup(dispatcher.Close)

	NewNotificationService(dispatcher, sender, zap.NewNop()).RegisterHandlers()
	svc := newTestService(repo, nil, dispatcher)
	return svc, repo, sender, dispatcher
}

func TestCreate_SendsWelcomeEmail(t *testing.T) {
	svc, _, sender, _ := newNotificationFixture(t, clients.EmailResult{IsSuccess: true, StatusCode: 202})

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}

	req := sender.waitForSend(t)
	if req.ToEmail != created.Email {
		t.Fatalf("expected welcome mail to %s, got %s", created.Email, req.ToEmail)
	}
	if req.ToName != created.FirstName {
		t.Fatalf("expected welcome mail addressed to %s, got %s", created.FirstName, req.ToName)
	}

	// exactly one attempt, no retry
	select {
	case extra := <-sender.sent:
		t.Fatalf("unexpected second send attempt: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCreate_EmailFailureDoesNotAffectResult(t *testing.T) {
	svc, repo, sender, _ := newNotificationFixture(t, clients.EmailResult{IsSuccess: false, StatusCode: 500, ErrorMessage: "provider down"})

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("expected create to succeed despite email failure, got %v", err)
	}
	if created == nil || created.ID == "" {
		t.Fatal("expected a persisted customer")
	}

	sender.waitForSend(t)

	stored, err := repo.GetByID(context.Background(), created.ID)
	if err != nil || stored == nil {
		t.Fatalf("expected customer to remain persisted, got %v, %v", stored, err)
	}
}

func TestUpdate_SendsNoNotification(t *testing.T) {
	svc, _, sender, _ := newNotificationFixture(t, clients.EmailResult{IsSuccess: true})

	created, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	sender.waitForSend(t)

	input := validInput()
	input.FirstName = "Janet"
	if _, err := svc.Update(context.Background(), created.ID, input); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	select {
	case req := <-sender.sent:
		t.Fatalf("unexpected notification on update: %+v", req)
	case <-time.After(100 * time.Millisecond):
	}
}
