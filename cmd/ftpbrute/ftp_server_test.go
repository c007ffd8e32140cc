package main

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
)

// testFTPServer accepts one set of credentials and rejects everything else.
type testFTPServer struct {
	ln        net.Listener
	user      string
	password  string
	anonymous bool

	mu          sync.Mutex
	connections int
	passwords   []string
}

func newTestFTPServer(t *testing.T, user, password string, anonymous bool) *testFTPServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	s := &testFTPServer{ln: ln, user: user, password: password, anonymous: anonymous}
	go s.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

func (s *testFTPServer) addr() string {
	return s.ln.Addr().String()
}

func (s *testFTPServer) connectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connections
}

func (s *testFTPServer) passwordsSeen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.passwords...)
}

func (s *testFTPServer) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.connections++
		s.mu.Unlock()
		go s.handle(conn)
	}
}

func (s *testFTPServer) handle(conn net.Conn) {
	defer conn.Close()

	if _, err := io.WriteString(conn, "220 test server\r\n"); err != nil {
		return
	}

	reader := bufio.NewReader(conn)
	var user string
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		verb, arg, _ := strings.Cut(strings.TrimRight(line, "\r\n"), " ")

		var reply string
		switch verb {
		case "USER":
			user = arg
			reply = "331 Password required.\r\n"
		case "PASS":
			s.mu.Lock()
			s.passwords = append(s.passwords, arg)
			s.mu.Unlock()
			switch {
			case user == "anonymous" && s.anonymous:
				reply = "230 Anonymous access granted.\r\n"
			case user == s.user && arg == s.password:
				reply = "230 Login successful.\r\n"
			default:
				reply = "530 Login incorrect.\r\n"
			}
		case "QUIT":
			_, _ = io.WriteString(conn, "221 Bye.\r\n")
			return
		default:
			reply = "502 Not implemented.\r\n"
		}
		if _, err := io.WriteString(conn, reply); err != nil {
			return
		}
	}
}
