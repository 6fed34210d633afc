// Package markdown converts the markdown subset used by blog drafts into HTML
// fragments.
//
// The native converter is a line-oriented block state machine followed by a
// regex inline pass. It is not CommonMark: lists do not support lazy
// continuation, emphasis is not disambiguated, reference links are absent. It
// never fails; malformed input degrades to paragraphs.
package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	ruleLine     = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})$`)
	bulletItem   = regexp.MustCompile(`^[-*+]\s+`)
	orderedItem  = regexp.MustCompile(`^\d+\.\s+`)
	lineBreak    = regexp.MustCompile(`\r?\n`)
	separatorRun = regexp.MustCompile(`^-{3,}$`)
)

var codeEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

type listKind string

const (
	unordered listKind = "ul"
	ordered   listKind = "ol"
)

// listFrame is one open list: the indentation it was opened at and its kind.
type listFrame struct {
	indent int
	kind   listKind
}

// converter holds the block state for a single ToHTML call.
type converter struct {
	out []string

	para  []string
	quote []string
	lists []listFrame

	inCode   bool
	codeLang string
	code     strings.Builder
}

// ToHTML converts md to an HTML fragment. A leading front matter block is
// dropped first. Output blocks are joined with "\n".
func ToHTML(md string) string {
	c := &converter{}
	lines := lineBreak.Split(stripFrontMatter(md), -1)

	for i := 0; i < len(lines); i++ {
		i = c.line(lines, i)
	}
	c.finish()
	return strings.Join(c.out, "\n")
}

func stripFrontMatter(md string) string {
	s := strings.TrimLeft(md, " \t\r\n")
	if !strings.HasPrefix(s, "---") {
		return md
	}
	start := strings.Index(s, "\n")
	if start < 0 {
		return md
	}
	end := strings.Index(s[start:], "\n---")
	if end < 0 {
		return md
	}
	return s[start+end+len("\n---"):]
}

// line consumes lines[i] (and possibly following table rows) and returns the
// index of the last line it consumed.
func (c *converter) line(lines []string, i int) int {
	line := strings.ReplaceAll(lines[i], "\t", "    ")
	ltrim := strings.TrimLeft(line, " ")
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(ltrim, "```") {
		c.flushAll()
		if !c.inCode {
			c.inCode = true
			c.code.Reset()
			c.codeLang = strings.TrimSpace(ltrim[3:])
		} else {
			c.flushCode()
		}
		return i
	}
	if c.inCode {
		c.code.WriteString(line)
		c.code.WriteByte('\n')
		return i
	}

	if trimmed != "" && i+1 < len(lines) && strings.Contains(line, "|") && isSeparatorRow(strings.TrimSpace(lines[i+1])) {
		c.flushAll()
		return c.table(lines, i)
	}

	switch {
	case ruleLine.MatchString(trimmed):
		c.flushAll()
		c.out = append(c.out, "<hr />")
	case trimmed == "":
		c.flushParagraph()
		c.flushQuote()
	case strings.HasPrefix(ltrim, "#"):
		c.flushAll()
		level := len(ltrim) - len(strings.TrimLeft(ltrim, "#"))
		level = min(level, 6)
		text := strings.TrimSpace(ltrim[level:])
		c.out = append(c.out, "<h"+strconv.Itoa(level)+">"+Inline(text)+"</h"+strconv.Itoa(level)+">")
	case strings.HasPrefix(ltrim, ">"):
		c.flushParagraph()
		c.closeLists()
		c.quote = append(c.quote, strings.TrimLeft(ltrim[1:], " "))
	case bulletItem.MatchString(trimmed):
		c.listItem(line, unordered, bulletItem.ReplaceAllString(trimmed, ""))
	case orderedItem.MatchString(trimmed):
		c.listItem(line, ordered, orderedItem.ReplaceAllString(trimmed, ""))
	default:
		c.closeLists()
		c.flushQuote()
		c.para = append(c.para, line)
	}
	return i
}

func (c *converter) listItem(line string, kind listKind, text string) {
	c.flushParagraph()
	c.flushQuote()

	indent := len(line) - len(strings.TrimLeft(line, " "))
	if len(c.lists) == 0 || indent > c.lists[len(c.lists)-1].indent {
		c.openList(indent, kind)
	} else {
		for len(c.lists) > 0 && indent < c.lists[len(c.lists)-1].indent {
			c.popList()
		}
		if len(c.lists) > 0 && c.lists[len(c.lists)-1].kind != kind {
			c.popList()
			c.openList(indent, kind)
		}
		if len(c.lists) == 0 {
			c.openList(indent, kind)
		}
	}
	c.out = append(c.out, "<li>"+Inline(text)+"</li>")
}

func (c *converter) openList(indent int, kind listKind) {
	c.lists = append(c.lists, listFrame{indent: indent, kind: kind})
	c.out = append(c.out, "<"+string(kind)+">")
}

func (c *converter) popList() {
	top := c.lists[len(c.lists)-1]
	c.lists = c.lists[:len(c.lists)-1]
	c.out = append(c.out, "</"+string(top.kind)+">")
}

func (c *converter) closeLists() {
	for len(c.lists) > 0 {
		c.popList()
	}
}

func (c *converter) flushParagraph() {
	if len(c.para) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(c.para, " "))
	c.para = c.para[:0]
	if text != "" {
		c.out = append(c.out, "<p>"+Inline(text)+"</p>")
	}
}

func (c *converter) flushQuote() {
	if len(c.quote) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(c.quote, " "))
	c.quote = c.quote[:0]
	if text != "" {
		c.out = append(c.out, "<blockquote>"+Inline(text)+"</blockquote>")
	}
}

func (c *converter) flushCode() {
	cls := ""
	if c.codeLang != "" {
		cls = ` class="language-` + codeEscaper.Replace(c.codeLang) + `"`
	}
	c.out = append(c.out, "<pre><code"+cls+">"+codeEscaper.Replace(c.code.String())+"</code></pre>")
	c.inCode = false
	c.codeLang = ""
	c.code.Reset()
}

// flushAll closes every open text block before a new block context starts.
func (c *converter) flushAll() {
	c.flushParagraph()
	c.closeLists()
	c.flushQuote()
}

// finish flushes open blocks at end of input. An unclosed fence is emitted as
// a code block.
func (c *converter) finish() {
	if c.inCode {
		c.flushCode()
	}
	c.flushAll()
}
