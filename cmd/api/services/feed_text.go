package services

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML은 피드 항목의 제목/요약에 섞여 오는 HTML 마크업을 걷어내고
// 공백이 정규화된 평문을 반환한다. 파싱에 실패하면 입력을 그대로 돌려준다.
func StripHTML(s string) string {
	if s == "" || !strings.ContainsRune(s, '<') {
		return collapseSpaces(s)
	}

	node, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return collapseSpaces(s)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		// script/style 내부 텍스트는 본문이 아니다.
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return collapseSpaces(b.String())
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
