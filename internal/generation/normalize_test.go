package generation

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain answer \n", "plain answer"},
		{"[INST] hello [/INST] world", "world"},
		{"[INST]answer", "answer"},
		{"[/INST] answer", "answer"},
		{"  [inst] Echo [/inst]\n\nReply", "Reply"},
		{"answer with [INST] inside", "answer with [INST] inside"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractTextUsesFirstResult(t *testing.T) {
	text, err := extractText([]byte(`[{"generated_text":"first"},{"generated_text":"second"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "first" {
		t.Errorf("text = %q, want %q", text, "first")
	}
}
