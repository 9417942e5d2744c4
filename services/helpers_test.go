package services

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"yourrest-api/media"
	"yourrest-api/models"
	"yourrest-api/payment"
	"yourrest-api/repository"
	"yourrest-api/repository/sqlstore"
)

const gatewaySecret = "secret"

type fakeGateway struct {
	err    error
	orders int
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency string) (*payment.Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.orders++
	return &payment.Order{ID: "order_" + strings.Repeat("x", g.orders), Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) VerifySignature(c payment.Confirmation) error {
	if payment.Sign(gatewaySecret, c.OrderID, c.PaymentID) != c.Signature {
		return payment.ErrBadSignature
	}
	return nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test" }

type fakeUploader struct {
	err   error
	calls []string
}

func (u *fakeUploader) Upload(_ context.Context, file io.Reader, filename, preset string) (string, error) {
	u.calls = append(u.calls, preset+"/"+filename)
	if u.err != nil {
		return "", u.err
	}
	_, _ = io.Copy(io.Discard, file)
	return "https://img.example.com/" + preset + "/" + filename, nil
}

var _ media.Uploader = (*fakeUploader)(nil)

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type captureMailer struct {
	links []string
	err   error
}

func (m *captureMailer) SendVerification(_ context.Context, _ *models.User, link string) error {
	m.links = append(m.links, link)
	return m.err
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	store := sqlstore.New(db)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func newUser(t *testing.T, store *repository.Store, role models.UserRole) *Claims {
	t.Helper()
	u := &models.User{DisplayName: "Test", Email: uuid.NewString() + "@example.com",
		PasswordHash: "x", Role: role, NotificationsEnabled: true}
	require.NoError(t, store.Users.Create(context.Background(), u))
	return &Claims{UserID: u.ID, Email: u.Email, Role: role}
}

func image(name string) *Image {
	return &Image{File: strings.NewReader("bytes"), Filename: name}
}

var errBoom = errors.New("boom")
