package service

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shareview/shareview/internal/config"
	appErr "github.com/shareview/shareview/internal/pkg/errors"
)

func TestSMTPSenderRejectsIncompleteConfig(t *testing.T) {
	s := &smtpSender{cfg: config.MailConfig{Host: "mail.example.com"}, timeout: time.Second}
	require.ErrorIs(t, s.Send("a@x.com", "subject", "body"), appErr.ErrInvalid)
}

func TestSMTPSenderTimesOutOnSilentServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// accept the connection but never speak SMTP
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = io.Copy(io.Discard, conn)
		_ = conn.Close()
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	s := &smtpSender{
		cfg:     config.MailConfig{Host: "127.0.0.1", Port: port, From: "noreply@example.com"},
		timeout: 200 * time.Millisecond,
	}

	start := time.Now()
	err = s.Send("a@x.com", "subject", "body")
	require.Error(t, err)
	require.Less(t, time.Since(start), 5*time.Second)
}
