// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category is one of the fixed topic tags. The set is static configuration
// and is never stored in the database.
type Category struct {
	Value   string `json:"value"`
	LabelKO string `json:"label_ko"`
	LabelEN string `json:"label_en"`
}

// CategoryAll is the filter value meaning "every category".
const CategoryAll = ""

// Categories lists the filter options in display order, starting with the
// implicit "all" entry.
var Categories = []Category{
	{Value: CategoryAll, LabelKO: "전체", LabelEN: "All"},
	{Value: "humidity", LabelKO: "인문학", LabelEN: "Humanities"},
	{Value: "start-up", LabelKO: "스타트업", LabelEN: "Start-up"},
	{Value: "programming", LabelKO: "IT·프로그래밍", LabelEN: "IT & Programming"},
	{Value: "planning", LabelKO: "서비스·전략 기획", LabelEN: "Service & Strategy Planning"},
	{Value: "marketing", LabelKO: "마케팅", LabelEN: "Marketing"},
	{Value: "design", LabelKO: "디자인·일러스트", LabelEN: "Design & Illustration"},
	{Value: "self-development", LabelKO: "자기계발", LabelEN: "Self-development"},
}

// IsCategory reports whether value names one of the real tags. The "all"
// filter value is not a tag and returns false.
func IsCategory(value string) bool {
	if value == CategoryAll {
		return false
	}
	for _, c := range Categories {
		if c.Value == value {
			return true
		}
	}
	return false
}
