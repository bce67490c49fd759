package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/path?x=1",
	}
	for _, u := range valid {
		if err := Validate(u); err != nil {
			t.Errorf("Validate(%q) returned error: %v", u, err)
		}
	}

	invalid := []string{
		"ftp://example.com",
		"example.com",
		"https://",
	}
	for _, u := range invalid {
		if err := Validate(u); err == nil {
			t.Errorf("Validate(%q) expected error, got nil", u)
		}
	}
}

func TestWithParam(t *testing.T) {
	cases := []struct {
		url, name, value, want string
	}{
		{"https://a.example/jobs", "page", "2", "https://a.example/jobs?page=2"},
		{"https://a.example/jobs?page=1", "page", "3", "https://a.example/jobs?page=3"},
		{"https://a.example/?q=go", "offset", "10", "https://a.example/?offset=10&q=go"},
	}
	for _, c := range cases {
		got := WithParam(c.url, c.name, c.value)
		if got != c.want {
			t.Errorf("WithParam(%q, %q, %q) = %q, want %q", c.url, c.name, c.value, got, c.want)
		}
	}
}

func TestHost(t *testing.T) {
	if got := Host("https://www.Example.com:8080/x"); got != "www.example.com" {
		t.Errorf("Host = %q, want www.example.com", got)
	}
	if got := Host("://bad"); got != "" {
		t.Errorf("Host on unparsable URL = %q, want empty", got)
	}
}
