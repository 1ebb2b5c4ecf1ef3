package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  thankful for sleep  \n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Grateful for?", &out)
	if err != nil || got != "thankful for sleep" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Grateful for?", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSecret(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return []byte(" token-value \n"), nil
	}
	var out bytes.Buffer
	got, err := GetSecret("Token", &out)
	if err != nil || got != "token-value" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetSecret_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetSecret("Token", &out)
	if err == nil {
		t.Fatal("expected error")
	}
}
