// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blocks reads plain text out of the serialized block tree the
// editor stores in topics.content. The tree is a JSON array of blocks, each
// with an inline "content" array and nested "children" blocks.
package blocks

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Excerpt returns the first maxChars runes of the document's text, with
// blocks and inline runs separated by single spaces. Malformed or
// non-array content yields "".
func Excerpt(content string, maxChars int) string {
	if maxChars <= 0 || !gjson.Valid(content) {
		return ""
	}
	root := gjson.Parse(content)
	if !root.IsArray() {
		return ""
	}

	var parts []string
	collectBlocks(root, &parts)

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return truncate(text, maxChars)
}

func collectBlocks(blocks gjson.Result, parts *[]string) {
	blocks.ForEach(func(_, block gjson.Result) bool {
		collectInline(block.Get("content"), parts)
		if children := block.Get("children"); children.IsArray() {
			collectBlocks(children, parts)
		}
		return true
	})
}

// collectInline gathers text runs. Links wrap their own content array.
func collectInline(inline gjson.Result, parts *[]string) {
	if !inline.IsArray() {
		return
	}
	inline.ForEach(func(_, item gjson.Result) bool {
		if text := item.Get("text"); text.Type == gjson.String {
			*parts = append(*parts, text.String())
		}
		if nested := item.Get("content"); nested.IsArray() {
			collectInline(nested, parts)
		}
		return true
	})
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return strings.TrimSpace(string(runes[:maxChars]))
}
