package content

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// defaultSlug 在标题无法生成任何字符时使用。
const defaultSlug = "post"

var pinyinArgs = pinyin.NewArgs()

// Slugify 把标题转换为文件名/URL 使用的 slug。
// 规则：转小写，空格变为 "-"，只保留字母、数字和 "-"；
// 汉字转为不带声调的拼音，每个音节单独成词；连续的 "-" 合并，首尾的 "-" 去掉。
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.Is(unicode.Han, r) {
			if py := pinyin.LazyPinyin(string(r), pinyinArgs); len(py) > 0 {
				b.WriteString(" " + py[0] + " ")
				continue
			}
		}
		b.WriteRune(r)
	}

	s := strings.ReplaceAll(strings.ToLower(b.String()), " ", "-")

	var out strings.Builder
	lastDash := true // 丢弃开头的 "-"
	for _, r := range s {
		switch {
		case r == '-':
			if !lastDash {
				out.WriteRune(r)
			}
			lastDash = true
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			out.WriteRune(r)
			lastDash = false
		}
	}

	slug := strings.TrimRight(out.String(), "-")
	if slug == "" {
		return defaultSlug
	}
	return slug
}
