package app

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	if err != nil || got != "hello world" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetToken_PipedInput(t *testing.T) {
	oldTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = oldTerm })

	var out bytes.Buffer
	got, err := GetToken(rdr("  eyJ0b2tlbg.fake.sig  \n"), &out)
	if err != nil || got != "eyJ0b2tlbg.fake.sig" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetToken_Terminal(t *testing.T) {
	oldTerm := isTerminal
	oldRead := readPassword
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte(" secret-token "), nil }
	t.Cleanup(func() {
		isTerminal = oldTerm
		readPassword = oldRead
	})

	var out bytes.Buffer
	got, err := GetToken(rdr(""), &out)
	if err != nil || got != "secret-token" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetToken_TerminalError(t *testing.T) {
	oldTerm := isTerminal
	oldRead := readPassword
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	t.Cleanup(func() {
		isTerminal = oldTerm
		readPassword = oldRead
	})

	var out bytes.Buffer
	if _, err := GetToken(rdr(""), &out); err == nil {
		t.Fatal("expected error")
	}
}
