package opensearch

import "fmt"

// 문서 head에 등록되는 대체 링크의 고정 MIME 타입.
const (
	MIMETypeAtom = "application/atom+xml"
	MIMETypeRSS  = "application/rss+xml"
)

// Link는 프런트엔드가 document head에 심는 대체 링크 메타데이터다.
// Selector는 뷰 teardown 시 정확히 이 태그만 제거하기 위한 셀렉터다.
type Link struct {
	Rel      string `json:"rel"`
	MIMEType string `json:"type"`
	Href     string `json:"href"`
	Selector string `json:"selector"`
}

func newLink(mimeType, href string) Link {
	return Link{
		Rel:      "alternate",
		MIMEType: mimeType,
		Href:     href,
		Selector: fmt.Sprintf("link[href='%s']", href),
	}
}

// Links는 주어진 검색 조건에 대한 Atom/RSS 링크 쌍을 반환한다.
// RSS 링크는 Atom 경로의 문자열 치환으로만 파생된다.
func Links(scope, serviceContext string, sort *Sort, query string) []Link {
	atomRoute := FormulateRoute(scope, serviceContext, sort, query)
	return []Link{
		newLink(MIMETypeAtom, atomRoute),
		newLink(MIMETypeRSS, RSSVariant(atomRoute)),
	}
}
