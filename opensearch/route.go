package opensearch

import (
	"net/url"
	"strings"
)

// MatchAllQuery는 검색어가 비어 있을 때 사용하는 기본 질의다.
const MatchAllQuery = "*"

const (
	FormatAtom = "atom"
	FormatRSS  = "rss"
)

// Sort는 검색 결과 정렬 조건이다.
type Sort struct {
	Field     string
	Direction string
}

// FormulateRoute는 OpenSearch 검색 피드 경로를 만든다.
//
// 형식: /<service>/search?format=atom[&scope=<id>][&sort=<f>&sort_direction=<d>]&query=<q|*>
//
// 파라미터 순서와 텍스트는 기존 프런트엔드와의 정확한 텍스트 계약이므로
// url.Values처럼 순서를 재배열하는 빌더를 쓰지 않고 직접 이어 붙인다.
// 빈 질의는 "*"(전체 일치)로 대체되며 이때는 이스케이프하지 않는다.
func FormulateRoute(scope, serviceContext string, sort *Sort, query string) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(serviceContext)
	b.WriteString("/search?format=")
	b.WriteString(FormatAtom)
	if scope != "" {
		b.WriteString("&scope=")
		b.WriteString(scope)
	}
	if sort != nil && sort.Field != "" {
		b.WriteString("&sort=")
		b.WriteString(sort.Field)
		b.WriteString("&sort_direction=")
		b.WriteString(sort.Direction)
	}
	b.WriteString("&query=")
	if query == "" {
		b.WriteString(MatchAllQuery)
	} else {
		b.WriteString(url.QueryEscape(query))
	}
	return b.String()
}

// RSSVariant는 Atom 경로에서 RSS 경로를 만든다.
// 계약상 format=atom → format=rss 문자열 치환 외에는 바이트 단위로 동일해야 한다.
func RSSVariant(atomRoute string) string {
	return strings.Replace(atomRoute, "format="+FormatAtom, "format="+FormatRSS, 1)
}
