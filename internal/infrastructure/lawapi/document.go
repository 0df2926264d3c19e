package lawapi

import (
	"fmt"
	"strings"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

// lawDocument mirrors the DRF XML layout. Article and appendix units
// appear either directly under the root or wrapped in a group element
// depending on target type, so both paths are declared and merged.
type lawDocument struct {
	BasicInfo struct {
		LawName  string `xml:"법령명_한글"`
		RuleName string `xml:"행정규칙명"`
	} `xml:"기본정보"`

	ArticlesTop    []articleUnit  `xml:"조문단위"`
	ArticlesNested []articleUnit  `xml:"조문>조문단위"`
	AppendixTop    []appendixUnit `xml:"별표단위"`
	AppendixNested []appendixUnit `xml:"별표>별표단위"`
}

type articleUnit struct {
	Number  string   `xml:"조문번호"`
	IsBody  string   `xml:"조문여부"`
	Title   string   `xml:"조문제목"`
	Content string   `xml:"조문내용"`
	Clauses []clause `xml:"항"`
}

type clause struct {
	Content string `xml:"항내용"`
}

type appendixUnit struct {
	Number  string `xml:"별표번호"`
	Title   string `xml:"별표제목"`
	Content string `xml:"별표내용"`
}

func (d *lawDocument) sourceName() string {
	if d.BasicInfo.LawName != "" {
		return d.BasicInfo.LawName
	}
	return d.BasicInfo.RuleName
}

func (d *lawDocument) articles() []articleUnit {
	if len(d.ArticlesTop) > 0 {
		return d.ArticlesTop
	}
	return d.ArticlesNested
}

func (d *lawDocument) appendices() []appendixUnit {
	if len(d.AppendixTop) > 0 {
		return d.AppendixTop
	}
	return d.AppendixNested
}

// toRecord drops chapter headings and empty shells: a unit counts as an
// article only when it carries body text or at least one clause.
func (a articleUnit) toRecord(sourceName string) (domain.DocumentRecord, bool) {
	if a.IsBody == "전문" {
		return domain.DocumentRecord{}, false
	}

	parts := make([]string, 0, 1+len(a.Clauses))
	if content := strings.TrimSpace(a.Content); content != "" {
		parts = append(parts, content)
	}
	for _, cl := range a.Clauses {
		if content := strings.TrimSpace(cl.Content); content != "" {
			parts = append(parts, content)
		}
	}
	if len(parts) == 0 {
		return domain.DocumentRecord{}, false
	}

	return domain.DocumentRecord{
		Kind:       domain.KindArticle,
		SourceName: sourceName,
		Number:     fmt.Sprintf("제%s조", strings.TrimSpace(a.Number)),
		Title:      strings.TrimSpace(a.Title),
		FullText:   strings.Join(parts, "\n"),
	}, true
}

func (a appendixUnit) toRecord(sourceName string) (domain.DocumentRecord, bool) {
	content := strings.TrimSpace(a.Content)
	if content == "" {
		return domain.DocumentRecord{}, false
	}
	return domain.DocumentRecord{
		Kind:       domain.KindTable,
		SourceName: sourceName,
		Number:     fmt.Sprintf("별표 %s", strings.TrimSpace(a.Number)),
		Title:      strings.TrimSpace(a.Title),
		FullText:   content,
	}, true
}
