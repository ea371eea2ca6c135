package source

import (
	"encoding/hex"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

const DefaultCharset = "UTF-8"

var ErrUnknownCharset = errors.New("unknown charset")

// DecodeHex decodes a string of hex digit pairs.
func DecodeHex(s string) ([]byte, error) {
	data, err := hex.DecodeString(s)
	return data, errors.Wrap(err, "decode hex")
}

// Charset returns the character set named by the locale environment, in
// the usual LC_ALL, LC_CTYPE, LANG order. Locales without a codeset, and the
// C and POSIX locales, use DefaultCharset. Known codesets are returned by
// their preferred MIME name, so "ja_JP.eucJP" gives "EUC-JP".
func Charset() string {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		locale := os.Getenv(key)
		if locale == "" {
			continue
		}

		if idx := strings.IndexByte(locale, '@'); idx >= 0 {
			locale = locale[:idx]
		}
		if idx := strings.IndexByte(locale, '.'); idx >= 0 && idx < len(locale)-1 {
			codeset := locale[idx+1:]
			if enc, err := lookupCharset(codeset); err == nil {
				if name, err := ianaindex.MIME.Name(enc); err == nil {
					return name
				}
			}
			return codeset
		}
		return DefaultCharset
	}
	return DefaultCharset
}

// EncodeString encodes s in the named character set. An empty charset uses
// the locale's.
func EncodeString(s, charset string) ([]byte, error) {
	if charset == "" {
		charset = Charset()
	}

	enc, err := lookupCharset(charset)
	if err != nil {
		return nil, errors.Wrapf(err, "charset %q", charset)
	}

	data, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "encode %q as %s", s, charset)
	}

	return data, nil
}

// lookupCharset resolves IANA names and aliases, then the spellings glibc
// uses for locale codesets such as "utf8", "eucJP" and "iso88591".
func lookupCharset(name string) (encoding.Encoding, error) {
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}

	if enc, ok := foldedCharsets()[foldCharset(name)]; ok {
		return enc, nil
	}

	return nil, ErrUnknownCharset
}

// foldCharset lowercases name and drops everything but letters and digits.
func foldCharset(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			return r
		case 'A' <= r && r <= 'Z':
			return r + 'a' - 'A'
		}
		return -1
	}, name)
}

var foldedCharsets = sync.OnceValue(func() map[string]encoding.Encoding {
	m := make(map[string]encoding.Encoding)
	for _, all := range [][]encoding.Encoding{
		unicode.All,
		charmap.All,
		japanese.All,
		korean.All,
		simplifiedchinese.All,
		traditionalchinese.All,
	} {
		for _, enc := range all {
			for _, index := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
				name, err := index.Name(enc)
				if err != nil {
					continue
				}
				if _, ok := m[foldCharset(name)]; !ok {
					m[foldCharset(name)] = enc
				}
			}
		}
	}
	return m
})
