package fakeclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-webhook-relay/yourgpt"
)

var _ yourgpt.Client = (*FakeClient)(nil)

// FakeClient is a scripted yourgpt.Client for tests. Behaviour fields are set
// before use; call records are read after.
type FakeClient struct {
	lock sync.Mutex

	// Scripted behaviour
	SessionUIDs      []string // consumed in order; generated ids when empty
	Reply            yourgpt.Reply
	CreateSessionErr error
	SendMessageErr   error

	// Recorded calls
	CreateSessionCalls int
	SendMessageCalls   int
	SentSessions       []string
	SentMessages       []string

	nextSession int
}

func NewFakeClient(sessionUIDs ...string) *FakeClient {
	return &FakeClient{SessionUIDs: sessionUIDs}
}

func (f *FakeClient) CreateSession(_ context.Context) (string, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.CreateSessionCalls++
	if f.CreateSessionErr != nil {
		return "", f.CreateSessionErr
	}
	if len(f.SessionUIDs) == 0 {
		return fmt.Sprintf("fake-session-%d", f.CreateSessionCalls), nil
	}
	uid := f.SessionUIDs[f.nextSession%len(f.SessionUIDs)]
	f.nextSession++
	return uid, nil
}

func (f *FakeClient) SendMessage(_ context.Context, sessionUID, message string) (yourgpt.Reply, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.SendMessageCalls++
	f.SentSessions = append(f.SentSessions, sessionUID)
	f.SentMessages = append(f.SentMessages, message)
	if f.SendMessageErr != nil {
		return yourgpt.Reply{}, f.SendMessageErr
	}
	return f.Reply, nil
}
