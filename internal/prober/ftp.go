package prober

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/textproto"
	"strings"
	"time"

	"github.com/nao1215/ftpbrute/internal/model"
	"golang.org/x/net/proxy"
)

// FTPProber attempts FTP logins over a plain control connection.
type FTPProber struct {
	// dialer opens the control connection. It is a *net.Dialer unless a
	// SOCKS5 proxy is configured.
	dialer proxy.ContextDialer

	logger *slog.Logger
}

// FTPProberOption configures an FTPProber.
type FTPProberOption func(*FTPProber)

// WithDialer sets the dialer used to open control connections.
func WithDialer(d proxy.ContextDialer) FTPProberOption {
	return func(p *FTPProber) {
		if d != nil {
			p.dialer = d
		}
	}
}

// WithLogger sets the logger used for per-attempt debug output.
func WithLogger(logger *slog.Logger) FTPProberOption {
	return func(p *FTPProber) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewFTPProber creates an FTPProber that dials directly unless WithDialer
// says otherwise.
func NewFTPProber(opts ...FTPProberOption) *FTPProber {
	p := &FTPProber{
		dialer: &net.Dialer{},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// NewSOCKS5Dialer returns a dialer that reaches targets through the SOCKS5
// proxy at address ("host:port"). The proxy is not contacted until the
// first dial.
func NewSOCKS5Dialer(address string) (proxy.ContextDialer, error) {
	d, err := proxy.SOCKS5("tcp", address, nil, &net.Dialer{})
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("SOCKS5 dialer for %s does not support contexts", address)
	}
	return cd, nil
}

// Attempt runs one login exchange against target with cred.
func (p *FTPProber) Attempt(target model.Target, cred model.Credential) (outcome model.Outcome) {
	start := time.Now()
	reply := 0

	defer func() {
		if r := recover(); r != nil {
			outcome = model.OutcomeInconclusive
			p.logger.Warn("ftp attempt panicked", "address", target.Address(), "panic", r)
		}
		p.logger.Debug("ftp login attempt",
			"address", target.Address(),
			"user", cred.Username,
			"password", cred.Password,
			"reply", reply,
			"outcome", outcome.String(),
			"elapsed", time.Since(start),
		)
	}()

	outcome, reply = p.login(target, cred)
	return outcome
}

// login performs the exchange and returns the outcome together with the
// last reply code seen (0 if none).
func (p *FTPProber) login(target model.Target, cred model.Credential) (model.Outcome, int) {
	// Line breaks would let a candidate smuggle extra commands.
	if strings.ContainsAny(cred.Username, "\r\n") || strings.ContainsAny(cred.Password, "\r\n") {
		return model.OutcomeInconclusive, 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), target.Timeout)
	defer cancel()

	raw, err := p.dialer.DialContext(ctx, "tcp", target.Address())
	if err != nil {
		return model.OutcomeInconclusive, 0
	}

	conn := newControlConn(raw, target.Timeout)
	defer conn.quit()

	code, err := conn.greeting()
	if err != nil || code/100 != 2 {
		return model.OutcomeInconclusive, code
	}

	code, err = conn.cmd("USER", cred.Username)
	if err == nil && code/100 == 3 {
		code, err = conn.cmd("PASS", loginPassword(cred))
	}
	if err == nil && code/100 == 3 {
		code, err = conn.cmd("ACCT", "")
	}
	if err != nil {
		return model.OutcomeInconclusive, code
	}

	return classifyReply(code), code
}

// loginPassword returns the password actually sent for cred. Anonymous
// logins with an empty or "-" password send the customary "anonymous@"
// identification instead.
func loginPassword(cred model.Credential) string {
	if cred.Username == model.AnonymousUser && (cred.Password == "" || cred.Password == "-") {
		return cred.Password + "anonymous@"
	}
	return cred.Password
}

// classifyReply maps the final reply code of the login exchange.
func classifyReply(code int) model.Outcome {
	switch code / 100 {
	case 2:
		return model.OutcomeAuthenticated
	case 5:
		return model.OutcomeRejected
	default:
		return model.OutcomeInconclusive
	}
}

// controlConn is an FTP control connection where every read and write is
// bounded by its own timeout.
type controlConn struct {
	raw     net.Conn
	text    *textproto.Conn
	timeout time.Duration
}

func newControlConn(raw net.Conn, timeout time.Duration) *controlConn {
	return &controlConn{
		raw:     raw,
		text:    textproto.NewConn(raw),
		timeout: timeout,
	}
}

// greeting reads the server welcome. 1xx replies ("120 Service ready in
// nnn minutes") are preliminary and followed by the real greeting; the
// whole phase shares a single deadline.
func (c *controlConn) greeting() (int, error) {
	deadline := time.Now().Add(c.timeout)
	for {
		code, err := c.readReplyBy(deadline)
		if err != nil || code/100 != 1 {
			return code, err
		}
	}
}

// readReply reads one (possibly multi-line) reply and returns its code.
func (c *controlConn) readReply() (int, error) {
	return c.readReplyBy(time.Now().Add(c.timeout))
}

func (c *controlConn) readReplyBy(deadline time.Time) (int, error) {
	if err := c.raw.SetReadDeadline(deadline); err != nil {
		return 0, err
	}
	code, _, err := c.text.ReadResponse(0)
	if err != nil {
		return 0, err
	}
	return code, nil
}

// cmd sends "VERB arg" and reads the reply.
func (c *controlConn) cmd(verb, arg string) (int, error) {
	if err := c.raw.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	if err := c.text.PrintfLine("%s %s", verb, arg); err != nil {
		return 0, err
	}
	return c.readReply()
}

// quit says goodbye and closes the socket. Failures are ignored: the
// outcome of the attempt is already decided.
func (c *controlConn) quit() {
	deadline := time.Now().Add(c.timeout)
	if err := c.raw.SetDeadline(deadline); err == nil {
		if err := c.text.PrintfLine("QUIT"); err == nil {
			_, _, _ = c.text.ReadResponse(0) //nolint:errcheck // best effort
		}
	}
	_ = c.text.Close() //nolint:errcheck // best effort cleanup
}
