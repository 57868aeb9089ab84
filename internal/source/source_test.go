package source

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type stubSource struct {
	name string
	urls []string
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Discover(context.Context, string, int) ([]string, error) {
	return s.urls, s.err
}

func TestCompositeMergesAndDeduplicates(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubSource{name: "search", urls: []string{
		"https://a.example/one",
		"https://b.example/two",
	}})
	reg.Register(&stubSource{name: "feeds", urls: []string{
		"https://b.example/two",
		"https://c.example/three",
	}})

	got, err := NewComposite(reg, nil).Discover(context.Background(), "gmo", 10)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}

	want := []string{"https://a.example/one", "https://b.example/two", "https://c.example/three"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merged urls = %v, want %v", got, want)
	}
}

func TestCompositeSkipsFailingSourceAndCaps(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubSource{name: "broken", err: errors.New("no api key")})
	reg.Register(&stubSource{name: "search", urls: []string{
		"https://a.example/1", "https://a.example/2", "https://a.example/3",
	}})

	got, err := NewComposite(reg, nil).Discover(context.Background(), "gmo", 2)
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected cap at 2 urls, got %v", got)
	}
}

func TestValidateURLs(t *testing.T) {
	t.Parallel()

	valid, dropped := ValidateURLs([]string{
		"https://ok.example/a",
		"ftp://nope.example/b",
		"http://ok.example/c",
		"javascript:alert(1)",
	})

	wantValid := []string{"https://ok.example/a", "http://ok.example/c"}
	if !reflect.DeepEqual(valid, wantValid) {
		t.Fatalf("valid = %v, want %v", valid, wantValid)
	}
	if len(dropped) != 2 {
		t.Fatalf("expected 2 dropped urls, got %v", dropped)
	}
}
