// Package emit provides the indentation-tracking text writer the generator's
// printers and emitters share to assemble output source, plus the two
// comment conventions that source uses throughout: JSDoc blocks on emitted
// methods and types, and the "//"-prefixed header every generated module
// opens with.
package emit

import (
	"fmt"
	"strings"
)

// Writer builds output source text with indentation bookkeeping. It is a
// plain append-only buffer: callers are responsible for well-formed nesting
// of Block/EndBlock pairs.
type Writer struct {
	buf    strings.Builder
	indent int
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Line writes a single line at the current indentation level.
func (w *Writer) Line(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if line == "" {
		w.buf.WriteByte('\n')
		return
	}
	w.writeIndent()
	w.buf.WriteString(line)
	w.buf.WriteByte('\n')
}

// Raw writes a raw string without indentation or a trailing newline.
func (w *Writer) Raw(s string) {
	w.buf.WriteString(s)
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.buf.WriteByte('\n')
}

// Block opens a brace-delimited block and increases indentation.
func (w *Writer) Block(format string, args ...any) {
	w.writeIndent()
	w.buf.WriteString(fmt.Sprintf(format, args...))
	w.buf.WriteString(" {\n")
	w.indent++
}

// EndBlock closes a block opened with Block.
func (w *Writer) EndBlock() {
	w.indent--
	w.writeIndent()
	w.buf.WriteString("}\n")
}

// Indent increases the indentation level without opening a block.
func (w *Writer) Indent() {
	w.indent++
}

// Dedent decreases the indentation level without closing a block.
func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// IndentLevel returns the current indentation depth, in levels (not spaces).
func (w *Writer) IndentLevel() int {
	return w.indent
}

func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.buf.WriteString("  ")
	}
}

// String returns the accumulated source text.
func (w *Writer) String() string {
	return w.buf.String()
}

// Len returns the current byte length of the buffer.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// CommentWidth returns the usable text width for a comment line written at
// the given indentation depth: 80 columns minus a " */" terminator and two
// spaces per indent level.
func CommentWidth(indentLevel int) int {
	return 80 - 3 - indentLevel*2
}

// DocBlock writes a JSDoc block from one or more paragraphs — typically a
// leading description followed by "@param name text" lines — each
// independently word-wrapped to the writer's current column budget. Any
// literal "*/" is escaped so it cannot terminate the comment early. Empty
// paragraphs are dropped; a block with nothing left to say writes nothing.
// A single wrapped line is emitted as "/** ... */"; more than one gets the
// full "/**" / " * " / " */" form.
func (w *Writer) DocBlock(paragraphs ...string) {
	width := CommentWidth(w.indent)
	var lines []string
	for _, p := range paragraphs {
		if p == "" {
			continue
		}
		lines = append(lines, wrapCommentText(escapeCommentTerminator(p), width)...)
	}
	if len(lines) == 0 {
		return
	}
	if len(lines) == 1 {
		w.Line("/** %s */", lines[0])
		return
	}
	w.Line("/**")
	for _, line := range lines {
		w.Line(" * %s", line)
	}
	w.Line(" */")
}

// LineCommentBlock writes s word-wrapped to width, one "// "-prefixed line
// per wrapped line, for non-JSDoc boilerplate such as a module's header.
func (w *Writer) LineCommentBlock(s string, width int) {
	for _, line := range wrapCommentText(s, width) {
		w.Line("// %s", line)
	}
}

func escapeCommentTerminator(s string) string {
	return strings.ReplaceAll(s, "*/", "*\\/")
}

func wrapCommentText(s string, width int) []string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	for _, word := range words {
		if cur.Len() == 0 {
			cur.WriteString(word)
			continue
		}
		if cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(word)
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
