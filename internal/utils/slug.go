package utils

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 无法通过 NFD 分解去掉变音符号的字母
var letterReplacer = strings.NewReplacer("ł", "l", "Ł", "L", "ø", "o", "Ø", "O", "đ", "d", "Đ", "D", "ß", "ss")

// Slugify 将城市名转换为只包含小写字母、数字和连字符的标识，汉字转换为拼音
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			for _, syllable := range pinyin.LazyConvert(string(r), nil) {
				b.WriteString(" " + syllable + " ")
			}
			continue
		}
		b.WriteRune(r)
	}

	// transform.Chain 返回的 Transformer 有状态，每次调用都需要重新创建
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, letterReplacer.Replace(b.String()))
	if err != nil {
		plain = b.String()
	}

	words := strings.FieldsFunc(strings.ToLower(plain), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(words, "-")
}
