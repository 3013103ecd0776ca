package mail

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recommendation struct {
	Title       string
	Description string
	URL         string
}

type confirmationData struct {
	Subject         string
	FirstName       string
	PlanName        string
	Amount          string
	TransactionID   string
	ProcessorRef    string
	Recommendations []recommendation
}

func TestRenderPaymentConfirmation(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	body, err := r.Render(TemplatePaymentConfirmation, confirmationData{
		Subject:       "Payment received",
		FirstName:     "Asha <script>",
		PlanName:      "Gold",
		Amount:        "499.50",
		TransactionID: "T1",
		Recommendations: []recommendation{
			{Title: "Go course", URL: "https://example.com/go"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, body, "<title>Payment received</title>")
	assert.Contains(t, body, "Asha &lt;script&gt;")
	assert.Contains(t, body, "<strong>Gold</strong>")
	assert.Contains(t, body, "499.50")
	assert.Contains(t, body, `<a href="https://example.com/go">Go course</a>`)
	assert.NotContains(t, body, "Payment reference")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render("missing", nil)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_SENDER", "billing@example.com")
	t.Setenv("SMTP_TIMEOUT_SECONDS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:2525", cfg.Addr())
	assert.Equal(t, 3*time.Second, cfg.SendTimeout)
}

func TestLoadConfigMissingSender(t *testing.T) {
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_SENDER", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sender")
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	raw := string(buildMessage("billing@example.com", Message{
		To:       "a@b.com",
		Subject:  "Zahlung erhalten ✓",
		HTMLBody: "<p>hi</p>",
	}, now))

	assert.Contains(t, raw, "From: billing@example.com\r\n")
	assert.Contains(t, raw, "To: a@b.com\r\n")
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>hi</p>")
}

// fakeSMTPServer accepts one session and records the DATA section.
type fakeSMTPServer struct {
	ln   net.Listener
	mu   sync.Mutex
	rcpt string
	data string
	done chan struct{}
}

func newFakeSMTPServer(t *testing.T) *fakeSMTPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeSMTPServer{ln: ln, done: make(chan struct{})}
	t.Cleanup(func() { _ = ln.Close() })
	go s.serve()
	return s
}

func (s *fakeSMTPServer) serve() {
	defer close(s.done)
	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 localhost ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			_ = tp.PrintfLine("250 localhost")
		case strings.HasPrefix(cmd, "MAIL FROM"):
			_ = tp.PrintfLine("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO"):
			s.mu.Lock()
			s.rcpt = line
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK")
		case cmd == "DATA":
			_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
			body, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.data = string(body)
			s.mu.Unlock()
			_ = tp.PrintfLine("250 OK queued")
		case cmd == "QUIT":
			_ = tp.PrintfLine("221 Bye")
			return
		default:
			_ = tp.PrintfLine("250 OK")
		}
	}
}

func TestSMTPMailerSend(t *testing.T) {
	srv := newFakeSMTPServer(t)
	host, port, err := net.SplitHostPort(srv.ln.Addr().String())
	require.NoError(t, err)

	m := NewSMTPMailer(&Config{Host: host, Port: port, Sender: "billing@example.com", SendTimeout: 5 * time.Second})
	err = m.Send(context.Background(), Message{To: "payer@example.com", Subject: "Hi", HTMLBody: "<p>paid</p>"})
	require.NoError(t, err)

	select {
	case <-srv.done:
	case <-time.After(5 * time.Second):
		t.Fatal("smtp session did not finish")
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	assert.Contains(t, srv.rcpt, "payer@example.com")
	assert.Contains(t, srv.data, "<p>paid</p>")
}

func TestSMTPMailerDialTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	host, port, _ := net.SplitHostPort(ln.Addr().String())

	// Accepts the connection but never greets, so the client must time out.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = bufio.NewReader(conn).ReadString('\n')
		_ = conn.Close()
	}()

	m := NewSMTPMailer(&Config{Host: host, Port: port, Sender: "billing@example.com", SendTimeout: 200 * time.Millisecond})
	start := time.Now()
	err = m.Send(context.Background(), Message{To: "payer@example.com", Subject: "Hi", HTMLBody: "x"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestSMTPMailerRejectsEmptyRecipient(t *testing.T) {
	m := NewSMTPMailer(&Config{Host: "127.0.0.1", Port: "1", Sender: "a@b.com", SendTimeout: time.Second})
	assert.Error(t, m.Send(context.Background(), Message{}))
}
