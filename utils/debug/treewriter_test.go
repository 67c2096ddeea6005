package debug

import (
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{name: "no depth", format: "Stylesheet", want: "Stylesheet\n"},
		{name: "depth 1", depth: 1, format: "AtRule", want: "  AtRule\n"},
		{name: "depth 2", depth: 2, format: "Rule", want: "    Rule\n"},
		{name: "with formatting", depth: 1, format: "nodes: %d", args: []any{42}, want: "  nodes: 42\n"},
		{name: "multiple args", format: "@%s block=%t", args: []any{"media", true}, want: "@media block=true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{name: "empty value", label: "Prelude", want: "Prelude: \n"},
		{name: "with value", label: "Rule", value: "a, b", want: "Rule: \"a, b\"\n"},
		{name: "indented", depth: 2, label: "Body", value: "x", want: "    Body: \"x\"\n"},
		{name: "quotes", label: "Other", value: `content: "x"`, want: "Other: \"content: \\\"x\\\"\"\n"},
		{name: "newline", label: "Comment", value: "/* a\nb */", want: "Comment: \"/* a\\nb */\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Field(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		flags []string
		want  string
	}{
		{name: "plain", key: "color", value: "red", want: "  color: \"red\"\n"},
		{name: "empty value is quoted", key: "color", want: "  color: \"\"\n"},
		{name: "flag", key: "color", value: "red", flags: []string{"!important"}, want: "  color: \"red\" !important\n"},
		{name: "several flags", key: "x", value: "y", flags: []string{"a", "b"}, want: "  x: \"y\" a b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Field(1, tt.key, tt.value, tt.flags...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Field() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"red", `"red"`},
		{`url("a b")`, `"url(\"a b\")"`},
		{"a\tb", `"a\tb"`},
		{`\25cf`, `"\\25cf"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := encodeText(tt.input); got != tt.want {
				t.Errorf("encodeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Tree(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "Stylesheet: %d nodes", 1)
	tw.Line(1, "AtRule: @media")
	tw.TextBlock(2, "Prelude", "print")
	tw.TextBlock(2, "Rule", "a")
	tw.Field(3, "color", "red")

	want := "Stylesheet: 1 nodes\n  AtRule: @media\n    Prelude: \"print\"\n    Rule: \"a\"\n      color: \"red\"\n"
	if got := tw.String(); got != want {
		t.Errorf("tree:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
