package prober

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeFTPServer is a scripted FTP control-channel server for tests.
type fakeFTPServer struct {
	ln net.Listener

	// greeting is written on connect; empty means stay silent.
	greeting string

	// users maps accepted usernames to their password.
	users map[string]string

	// noPassUsers are logged in directly by USER (230).
	noPassUsers map[string]bool

	// userReply overrides the reply to USER when set.
	userReply string

	// passReply overrides the reply to PASS when set.
	passReply string

	// account, when set, makes PASS answer 332 and ACCT succeed.
	account bool

	mu        sync.Mutex
	commands  []string
	passwords []string
	quits     int
	closed    int
}

func newFakeFTPServer(t *testing.T, configure func(s *fakeFTPServer)) *fakeFTPServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	s := &fakeFTPServer{
		ln:          ln,
		greeting:    "220 fake FTP server ready\r\n",
		users:       map[string]string{},
		noPassUsers: map[string]bool{},
	}
	if configure != nil {
		configure(s)
	}

	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })

	return s
}

func (s *fakeFTPServer) addr() string {
	return s.ln.Addr().String()
}

func (s *fakeFTPServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeFTPServer) handle(conn net.Conn) {
	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		s.closed++
		s.mu.Unlock()
	}()

	if s.greeting == "" {
		_, _ = io.Copy(io.Discard, conn)
		return
	}
	if _, err := io.WriteString(conn, s.greeting); err != nil {
		return
	}

	reader := bufio.NewReader(conn)
	var user string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		verb, arg, _ := strings.Cut(line, " ")

		s.mu.Lock()
		s.commands = append(s.commands, verb)
		if verb == "PASS" {
			s.passwords = append(s.passwords, arg)
		}
		if verb == "QUIT" {
			s.quits++
		}
		s.mu.Unlock()

		var reply string
		switch verb {
		case "USER":
			user = arg
			switch {
			case s.userReply != "":
				reply = s.userReply
			case s.noPassUsers[user]:
				reply = "230 Login successful.\r\n"
			default:
				reply = "331 Please specify the password.\r\n"
			}
		case "PASS":
			want, ok := s.users[user]
			switch {
			case s.passReply != "":
				reply = s.passReply
			case ok && want == arg && s.account:
				reply = "332 Need account for login.\r\n"
			case ok && want == arg:
				reply = "230 Login successful.\r\n"
			default:
				reply = "530 Login incorrect.\r\n"
			}
		case "ACCT":
			reply = "230 Account accepted.\r\n"
		case "QUIT":
			_, _ = io.WriteString(conn, "221 Goodbye.\r\n")
			return
		default:
			reply = "502 Command not implemented.\r\n"
		}

		if _, err := io.WriteString(conn, reply); err != nil {
			return
		}
	}
}

func (s *fakeFTPServer) commandsSeen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func (s *fakeFTPServer) passwordsSeen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.passwords...)
}

func (s *fakeFTPServer) quitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quits
}

// waitClosed waits until the server has seen n connections end.
func (s *fakeFTPServer) waitClosed(t *testing.T, n int) {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d closed connections on the server side", n)
}
