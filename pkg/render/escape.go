package render

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)

	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

// escapeHTML escapes text content. Quotes are left alone because they
// cannot end a text node.
func escapeHTML(s string) string {
	return textEscaper.Replace(s)
}

// escapeAttr escapes a double-quoted attribute value, including the
// whitespace characters that attribute normalization would otherwise fold.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
