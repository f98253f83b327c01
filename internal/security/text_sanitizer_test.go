package security

import "testing"

func TestSanitize_RemovesScriptTags(t *testing.T) {
	s := NewTextSanitizer()

	got := s.Sanitize(`<script>alert("xss")</script>buy milk`)
	if got != "buy milk" {
		t.Errorf("Sanitize() = %q, want %q", got, "buy milk")
	}
}

func TestSanitize_RemovesAllHTMLTags(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		input string
		want  string
	}{
		{"<b>bold</b> task", "bold task"},
		{`<a href="https://evil.example">link</a>`, "link"},
		{"<img src=x onerror=alert(1)>walk the dog", "walk the dog"},
		{"plain text", "plain text"},
	}

	for _, tt := range tests {
		if got := s.Sanitize(tt.input); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitize_PreservesAmpersandAndQuotes(t *testing.T) {
	s := NewTextSanitizer()

	if got := s.Sanitize("Buy milk & eggs"); got != "Buy milk & eggs" {
		t.Errorf("Sanitize() = %q, want ampersand preserved", got)
	}
}

func TestSanitize_EmptyInput(t *testing.T) {
	s := NewTextSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	input := "<b>task</b> & more"
	once := s.Sanitize(input)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize not idempotent: %q != %q", once, twice)
	}
}
