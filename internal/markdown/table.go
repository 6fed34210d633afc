package markdown

import "strings"

// table renders the table whose header is lines[i] and separator lines[i+1],
// consuming following non-blank rows that contain '|'.
func (c *converter) table(lines []string, i int) int {
	headers := splitRow(lines[i])
	aligns := parseAligns(lines[i+1], len(headers))

	var rows [][]string
	j := i + 2
	for ; j < len(lines); j++ {
		r := lines[j]
		if strings.TrimSpace(r) == "" || !strings.Contains(r, "|") {
			break
		}
		rows = append(rows, splitRow(r))
	}
	c.out = append(c.out, renderTable(headers, aligns, rows))
	return j - 1
}

// splitRow drops one leading and one trailing pipe and trims every cell.
func splitRow(line string) []string {
	t := strings.TrimSpace(line)
	t = strings.TrimPrefix(t, "|")
	t = strings.TrimSuffix(t, "|")
	parts := strings.Split(t, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// isSeparatorRow accepts a row where all but at most one cell are runs of
// three or more dashes with optional alignment colons. Blank cells are ignored.
func isSeparatorRow(line string) bool {
	if !strings.Contains(line, "|") {
		return false
	}
	cells := splitRow(line)
	ok := 0
	for _, cell := range cells {
		x := strings.ReplaceAll(cell, " ", "")
		if x == "" {
			continue
		}
		if separatorRun.MatchString(strings.ReplaceAll(x, ":", "")) {
			ok++
		}
	}
	return ok >= max(1, len(cells)-1)
}

// parseAligns returns exactly cols alignments: "left", "right", "center" or "".
func parseAligns(line string, cols int) []string {
	raw := splitRow(line)
	out := make([]string, cols)
	for i := 0; i < cols && i < len(raw); i++ {
		x := strings.ReplaceAll(raw[i], " ", "")
		if !separatorRun.MatchString(strings.ReplaceAll(x, ":", "")) {
			continue
		}
		left := strings.HasPrefix(x, ":")
		right := strings.HasSuffix(x, ":")
		switch {
		case left && right:
			out[i] = "center"
		case right:
			out[i] = "right"
		case left:
			out[i] = "left"
		}
	}
	return out
}

func alignAttr(a string) string {
	if a == "" {
		return ""
	}
	return ` style="text-align: ` + a + `"`
}

func renderTable(headers, aligns []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString("<table>\n  <thead><tr>\n")
	for i, h := range headers {
		b.WriteString("    <th" + alignAttr(aligns[i]) + ">" + Inline(h) + "</th>\n")
	}
	b.WriteString("  </tr></thead>\n  <tbody>\n")
	for _, r := range rows {
		b.WriteString("    <tr>\n")
		for i := range headers {
			cell := ""
			if i < len(r) {
				cell = r[i]
			}
			b.WriteString("      <td" + alignAttr(aligns[i]) + ">" + Inline(cell) + "</td>\n")
		}
		b.WriteString("    </tr>\n")
	}
	b.WriteString("  </tbody>\n</table>")
	return b.String()
}
